package main

import (
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/featherfall/exploding-chickens/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:3000", "服务器地址")
	lobbySlug := flag.String("lobby", "", "大厅口令（必填）")
	flag.Parse()

	if *lobbySlug == "" {
		log.Fatal("请通过 -lobby 指定大厅口令")
	}

	serverURL := fmt.Sprintf("ws://%s/ws", *serverAddr)

	model := ui.NewModel(serverURL, *lobbySlug)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("启动客户端时出错: %v", err)
	}
}
