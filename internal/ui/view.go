package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	var b strings.Builder

	switch m.phase {
	case PhaseConnecting:
		b.WriteString(titleStyle("🐔 炸鸡大作战"))
		b.WriteString("\n\n正在连接服务器...")
	case PhaseNickname:
		b.WriteString(titleStyle("🐔 炸鸡大作战"))
		b.WriteString("\n\n" + promptStyle.Render("取一个昵称（留空随机）:"))
		b.WriteString("\n" + m.input.View())
		b.WriteString("\n" + dimStyle.Render("Enter 确认 · ESC 退出"))
	case PhaseLobby:
		b.WriteString(m.viewLobby())
	case PhasePlaying:
		b.WriteString(m.viewGame())
	case PhaseGameOver:
		b.WriteString(m.viewGameOver())
	}

	if m.reconnect != "" {
		b.WriteString("\n\n" + errorStyle.Render(m.reconnect))
	}
	if m.errorText != "" {
		b.WriteString("\n\n" + errorStyle.Render(m.errorText))
	}
	if m.notice != "" {
		b.WriteString("\n\n" + noticeStyle.Render(m.notice))
	}

	return docStyle.Render(b.String())
}

// viewLobby 大厅名单与设置
func (m *Model) viewLobby() string {
	var b strings.Builder
	b.WriteString(titleStyle("🏠 大厅 " + m.lobbyView.Slug))
	b.WriteString("\n\n")

	var roster strings.Builder
	for _, p := range m.lobbyView.Players {
		line := p.Nickname
		if p.Role == "host" {
			line = HostIcon + " " + line
		}
		if p.Connections == 0 {
			line += " " + OfflineIcon
		}
		if p.Wins > 0 {
			line += dimStyle.Render(fmt.Sprintf(" (%d 胜)", p.Wins))
		}
		if p.ID == m.playerID {
			line += dimStyle.Render(" ← 你")
		}
		roster.WriteString(line + "\n")
	}
	b.WriteString(boxStyle.Render(strings.TrimRight(roster.String(), "\n")))

	s := m.lobbyView.Settings
	b.WriteString("\n\n" + dimStyle.Render(fmt.Sprintf(
		"分组: %s · 每桌上限: %d · 超时: %ds", s.Grouping, s.RoomSize, s.PlayTimeoutSeconds)))
	if len(m.lobbyView.ImportedPacks) > 0 {
		b.WriteString("\n" + dimStyle.Render("扩展包: "+strings.Join(m.lobbyView.ImportedPacks, ", ")))
	}

	if m.isHost() {
		b.WriteString("\n\n" + promptStyle.Render("按 s 开始对局"))
	} else {
		b.WriteString("\n\n" + dimStyle.Render("等待房主开始..."))
	}
	return b.String()
}

// viewGame 牌桌
func (m *Model) viewGame() string {
	var b strings.Builder
	b.WriteString(titleStyle("🎴 牌桌 " + m.gameView.Slug))
	b.WriteString("\n\n")

	// 对手一览
	for _, p := range m.gameView.Players {
		line := fmt.Sprintf("%s · %d 张", p.Nickname, p.HandSize)
		switch {
		case p.Status == "dead":
			line = dimStyle.Render("💀 " + p.Nickname)
		case p.Exploding:
			line = errorStyle.Render(ExplodingIcon + " " + line)
		case p.Seat == m.gameView.Seat:
			line = turnStyle.Render("▶ " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + fmt.Sprintf("牌堆: %d 张", m.gameView.DrawCount))
	if m.gameView.DiscardTop != nil {
		b.WriteString(" · 弃牌顶: " + cardLabel(m.gameView.DiscardTop.Kind))
	}
	if m.gameView.TurnsRemaining > 1 {
		b.WriteString(errorStyle.Render(fmt.Sprintf(" · 连续回合 ×%d", m.gameView.TurnsRemaining)))
	}
	b.WriteString("\n\n")

	// 手牌
	if len(m.gameView.Hand) == 0 {
		b.WriteString(dimStyle.Render("（旁观中）"))
	} else {
		cards := make([]string, 0, len(m.gameView.Hand))
		for i, c := range m.gameView.Hand {
			style := cardStyle
			if i == m.selected {
				style = pickedStyle
			}
			cards = append(cards, style.Render(cardLabel(c.Kind)))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	if m.need != "" {
		b.WriteString("\n\n" + promptStyle.Render(m.input.View()))
	} else if m.myTurn() {
		b.WriteString("\n\n" + turnStyle.Render("轮到你了！") +
			dimStyle.Render(" ←/→ 选牌 · Enter 出牌 · d 摸牌"))
	} else {
		b.WriteString("\n\n" + dimStyle.Render("等待其他玩家..."))
	}

	if m.latency > 0 {
		b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("延迟: %dms", m.latency)))
	}
	return b.String()
}

// viewGameOver 结算
func (m *Model) viewGameOver() string {
	var b strings.Builder
	winner := m.winnerID
	for _, p := range m.gameView.Players {
		if p.ID == m.winnerID {
			winner = p.Nickname
		}
	}

	if m.winnerID == m.playerID {
		b.WriteString(titleStyle("🎉 你赢了！"))
	} else {
		b.WriteString(titleStyle("🏆 " + winner + " 获胜"))
	}

	if m.isHost() {
		b.WriteString("\n\n" + promptStyle.Render("按 r 再来一局"))
	} else {
		b.WriteString("\n\n" + dimStyle.Render("等待房主重开..."))
	}
	return b.String()
}
