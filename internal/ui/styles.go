package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Icon constants
const (
	HostIcon      = "👑"
	ExplodingIcon = "🐔"
	OfflineIcon   = "💤"
)

// Lipgloss Styles
var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptStyle = lipgloss.NewStyle().MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	turnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	pickedStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).
			BorderForeground(lipgloss.Color("228")).Foreground(lipgloss.Color("228"))
)

// cardIcons 牌面图标
var cardIcons = map[string]string{
	"chicken":       "🐔",
	"defuse":        "🧯",
	"attack":        "⚔️",
	"skip":          "⏭️",
	"favor":         "🤲",
	"shuffle":       "🔀",
	"seethefuture":  "🔮",
	"reverse":       "🔄",
	"hotpotato":     "🥔",
	"scrambledeggs": "🍳",
	"superskip":     "⏩",
	"safetydraw":    "🛟",
	"drawbottom":    "🫳",
	"randchick-1":   "🐤",
	"randchick-2":   "🐤",
	"randchick-3":   "🐤",
	"randchick-4":   "🐤",
}

func cardLabel(kind string) string {
	if icon, ok := cardIcons[kind]; ok {
		return icon + " " + kind
	}
	return kind
}
