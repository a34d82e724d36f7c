package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/featherfall/exploding-chickens/internal/netclient"
	"github.com/featherfall/exploding-chickens/internal/protocol"
	"github.com/featherfall/exploding-chickens/internal/sound"
)

// 界面阶段
type Phase int

const (
	PhaseConnecting Phase = iota
	PhaseNickname
	PhaseLobby
	PhasePlaying
	PhaseGameOver
)

// ServerMessage 服务器消息（用于 tea.Msg）
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectedMsg 连接成功消息
type ConnectedMsg struct{}

// ConnectionErrorMsg 连接错误消息
type ConnectionErrorMsg struct {
	Err error
}

// ReconnectingMsg 正在重连消息
type ReconnectingMsg struct {
	Attempt  int
	MaxTries int
}

// ReconnectSuccessMsg 重连成功消息
type ReconnectSuccessMsg struct{}

// ClearNoticeMsg 清除提示消息
type ClearNoticeMsg struct{}

// Model 是客户端的唯一 bubbletea model
type Model struct {
	client *netclient.Client
	phase  Phase

	errorText string
	notice    string
	reconnect string
	playerID  string
	lobbyView protocol.LobbyView
	gameView  protocol.GameView
	hasGame   bool
	winnerID  string

	// 出牌状态
	selected    int    // 手牌光标
	pendingCard string // 等待补充信息的牌
	need        string // target | position

	// 网络延迟（毫秒）
	latency int64

	soundManager *sound.SoundManager
	netChan      chan tea.Msg

	input  textinput.Model
	width  int
	height int
}

// NewModel 创建客户端 model；serverURL 形如 ws://host:port/ws
func NewModel(serverURL, lobbySlug string) *Model {
	ti := textinput.New()
	ti.Placeholder = "输入昵称..."
	ti.CharLimit = 20
	ti.Width = 24
	ti.Focus()

	c := netclient.NewClient(serverURL, lobbySlug)
	netChan := make(chan tea.Msg, 16)

	m := &Model{
		client:       c,
		phase:        PhaseConnecting,
		input:        ti,
		netChan:      netChan,
		soundManager: sound.NewSoundManager(),
	}

	// 重连状态通过 channel 进入 Bubble Tea 消息循环
	c.OnReconnecting = func(attempt, maxTries int) {
		select {
		case netChan <- ReconnectingMsg{Attempt: attempt, MaxTries: maxTries}:
		default:
		}
	}
	c.OnReconnect = func() {
		select {
		case netChan <- ReconnectSuccessMsg{}:
		default:
		}
	}
	c.OnLatencyUpdate = func(latency int64) {
		m.latency = latency
	}

	return m
}

func (m *Model) Init() tea.Cmd {
	go func() {
		_ = m.soundManager.Init()
	}()

	return tea.Batch(
		m.connectToServer(),
		textinput.Blink,
		m.listenForNetEvents(),
	)
}

// connectToServer 连接服务器
func (m *Model) connectToServer() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Connect(); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

// listenForMessages 监听服务器消息
func (m *Model) listenForMessages() tea.Cmd {
	return func() tea.Msg {
		msg, err := m.client.Receive()
		if err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ServerMessage{Msg: msg}
	}
}

// listenForNetEvents 监听重连事件
func (m *Model) listenForNetEvents() tea.Cmd {
	return func() tea.Msg {
		return <-m.netChan
	}
}

// myView 返回自己在大厅名单中的条目
func (m *Model) myView() *protocol.PlayerView {
	for i := range m.lobbyView.Players {
		if m.lobbyView.Players[i].ID == m.playerID {
			return &m.lobbyView.Players[i]
		}
	}
	return nil
}

// isHost 自己是否房主
func (m *Model) isHost() bool {
	p := m.myView()
	return p != nil && p.Role == "host"
}

// myTurn 是否轮到自己出牌
func (m *Model) myTurn() bool {
	if !m.hasGame || m.gameView.Status != "in_game" {
		return false
	}
	for _, p := range m.gameView.Players {
		if p.Seat == m.gameView.Seat {
			return p.ID == m.playerID
		}
	}
	return false
}
