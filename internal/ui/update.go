package ui

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/featherfall/exploding-chickens/internal/lobby"
	"github.com/featherfall/exploding-chickens/internal/protocol"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		handled, cmd := m.handleKeyPress(msg)
		if handled {
			return m, cmd
		}

	case ConnectedMsg:
		m.errorText = ""
		if m.client.PlayerID == "" {
			m.phase = PhaseNickname
		} else {
			m.phase = PhaseLobby
		}
		m.client.StartHeartbeat()
		cmds = append(cmds, m.listenForMessages())

	case ConnectionErrorMsg:
		m.errorText = fmt.Sprintf("无法连接到服务器: %v\n\n按 ESC 退出", msg.Err)
		m.phase = PhaseConnecting

	case ReconnectingMsg:
		m.reconnect = fmt.Sprintf("🔄 正在重连 (%d/%d)...", msg.Attempt, msg.MaxTries)
		cmds = append(cmds, m.listenForNetEvents())

	case ReconnectSuccessMsg:
		m.reconnect = ""
		m.notice = "✅ 重连成功"
		cmds = append(cmds, m.clearNoticeLater(), m.listenForNetEvents())
		if m.client.IsConnected() {
			cmds = append(cmds, m.listenForMessages())
		}

	case ClearNoticeMsg:
		m.notice = ""

	case ServerMessage:
		if cmd := m.handleServerMessage(msg.Msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.client.IsConnected() {
			cmds = append(cmds, m.listenForMessages())
		}
	}

	if m.phase == PhaseNickname || m.need != "" {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) clearNoticeLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return ClearNoticeMsg{}
	})
}

// handleKeyPress 处理按键，返回是否已消费
func (m *Model) handleKeyPress(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.client.Close()
		m.soundManager.Close()
		return true, tea.Quit
	}

	switch m.phase {
	case PhaseNickname:
		if msg.String() == "enter" {
			nickname := strings.TrimSpace(m.input.Value())
			if nickname == "" {
				nickname = lobby.GenerateNickname(rand.New(rand.NewSource(time.Now().UnixNano())))
			}
			_ = m.client.CreatePlayer(nickname, "default.png")
			m.input.Reset()
			return true, nil
		}

	case PhaseLobby:
		switch msg.String() {
		case "s":
			if m.isHost() {
				_ = m.client.StartGames()
				return true, nil
			}
		}

	case PhasePlaying:
		return m.handleGameKey(msg)

	case PhaseGameOver:
		if msg.String() == "r" && m.isHost() {
			_ = m.client.ResetGames()
			return true, nil
		}
	}
	return false, nil
}

// handleGameKey 牌桌内按键
func (m *Model) handleGameKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	// 正在补充目标/位置：回车提交
	if m.need != "" {
		if msg.String() == "enter" {
			m.submitPending()
			return true, nil
		}
		return false, nil
	}

	switch msg.String() {
	case "left", "h":
		if m.selected > 0 {
			m.selected--
		}
		return true, nil
	case "right", "l":
		if m.selected < len(m.gameView.Hand)-1 {
			m.selected++
		}
		return true, nil
	case "enter", " ":
		if m.myTurn() && m.selected < len(m.gameView.Hand) {
			// 记住出的哪张牌，incomplete 补全时重发
			m.pendingCard = m.gameView.Hand[m.selected].ID
			_ = m.client.PlayCard(m.pendingCard, "", nil)
		}
		return true, nil
	case "d":
		if m.myTurn() {
			m.soundManager.Play("draw")
			_ = m.client.DrawCard()
		}
		return true, nil
	case "r":
		if m.isHost() {
			_ = m.client.ResetGames()
		}
		return true, nil
	}
	return false, nil
}

// submitPending 提交 incomplete 出牌缺少的目标或位置
func (m *Model) submitPending() {
	value := strings.TrimSpace(m.input.Value())
	m.input.Reset()

	switch m.need {
	case "player":
		_ = m.client.PlayCard(m.pendingCard, value, nil)
	case "position":
		pos, err := strconv.Atoi(value)
		if err != nil {
			m.errorText = "位置必须是数字"
			return
		}
		_ = m.client.PlayCard(m.pendingCard, "", &pos)
	}
	m.need = ""
	m.pendingCard = ""
}

// handleServerMessage 处理服务器推送
func (m *Model) handleServerMessage(msg *protocol.Message) tea.Cmd {
	if msg.Type.IsError() {
		payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
		if err == nil {
			m.errorText = payload.Message
		}
		return m.clearNoticeLater()
	}

	switch msg.Type {
	case protocol.MsgConnected:
		payload, err := protocol.ParsePayload[protocol.ConnectedPayload](msg)
		if err == nil && payload.PlayerID != "" {
			m.playerID = payload.PlayerID
			if m.phase == PhaseNickname {
				m.phase = PhaseLobby
			}
		}

	case protocol.MsgLobbyUpdate:
		payload, err := protocol.ParsePayload[protocol.LobbyUpdatePayload](msg)
		if err != nil {
			return nil
		}
		m.lobbyView = payload.Lobby
		if payload.Trigger == "kick-player" && m.playerID != "" && m.myView() == nil {
			m.errorText = "你已被移出大厅"
			m.client.Close()
			return tea.Quit
		}

	case protocol.MsgGameUpdate:
		payload, err := protocol.ParsePayload[protocol.GameUpdatePayload](msg)
		if err != nil {
			return nil
		}
		m.gameView = payload.Game
		m.hasGame = true
		if m.selected >= len(m.gameView.Hand) {
			m.selected = 0
		}
		switch m.gameView.Status {
		case "in_game":
			if m.phase == PhaseLobby || m.phase == PhaseGameOver {
				m.soundManager.Play("deal")
			}
			m.phase = PhasePlaying
		case "in_lobby":
			if m.phase == PhasePlaying || m.phase == PhaseGameOver {
				m.phase = PhaseLobby
			}
		}
		if winner := m.findWinner(); winner != "" {
			m.winnerID = winner
			m.phase = PhaseGameOver
			m.soundManager.Play("win")
		}

	case protocol.MsgPlayResult:
		payload, err := protocol.ParsePayload[protocol.PlayResultPayload](msg)
		if err != nil {
			return nil
		}
		return m.handlePlayResult(payload)
	}
	return nil
}

// handlePlayResult 处理自己出牌/摸牌的私有结果
func (m *Model) handlePlayResult(p *protocol.PlayResultPayload) tea.Cmd {
	if p.Outcome == "incomplete" {
		m.need = p.Need
		m.input.Placeholder = "输入目标玩家 ID..."
		if p.Need == "position" {
			m.input.Placeholder = "输入放回位置 (0 为顶)..."
		}
		m.input.Focus()
		return nil
	}

	m.errorText = ""
	m.pendingCard = ""
	switch {
	case p.Exploding:
		m.notice = "🐔 你摸到了爆炸鸡！打出拆弹牌，否则出局"
		m.soundManager.Play("explode")
	case p.Drawn != nil:
		m.notice = "摸到了 " + cardLabel(p.Drawn.Kind)
	case p.Stolen != nil:
		m.notice = "拿到了 " + cardLabel(p.Stolen.Kind)
	case len(p.Future) > 0:
		kinds := make([]string, 0, len(p.Future))
		for _, c := range p.Future {
			kinds = append(kinds, cardLabel(c.Kind))
		}
		m.notice = "🔮 牌堆顶: " + strings.Join(kinds, " | ")
	}
	return m.clearNoticeLater()
}

// findWinner 从牌桌快照里找出胜者
func (m *Model) findWinner() string {
	for _, p := range m.gameView.Players {
		if p.Status == "winner" {
			return p.ID
		}
	}
	return ""
}
