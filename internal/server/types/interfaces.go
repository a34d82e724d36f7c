// Package types holds the interfaces between the server core and its
// message handlers, so neither package imports the other.
package types

import (
	"context"
	"time"

	"github.com/featherfall/exploding-chickens/internal/game"
	"github.com/featherfall/exploding-chickens/internal/lobby"
	"github.com/featherfall/exploding-chickens/internal/protocol"
)

// ServerContext 定义服务器接口（用于打破循环依赖）
type ServerContext interface {
	Manager() *lobby.Manager
	// Persist writes the lobby through to storage. Handlers call it before
	// answering a mutating intent; a non-nil error means the intent must be
	// refused.
	Persist(ctx context.Context, l *lobby.Lobby) error
	// PushLobby fans the lobby snapshot out to every socket in the lobby.
	PushLobby(l *lobby.Lobby, trigger string)
	// PushGame fans the table snapshot out, each recipient with their own
	// hand attached.
	PushGame(l *lobby.Lobby, g *game.Game, trigger string)
	// OnlineCount counts open sockets in one lobby.
	OnlineCount(slug string) int
	DrawDebounce() time.Duration
}

// ClientInterface 定义客户端接口
type ClientInterface interface {
	GetID() string
	GetLobby() string
	GetPlayerID() string
	SetPlayerID(id string)
	SendMessage(msg *protocol.Message)
	// AllowDraw absorbs double-sends of draw-card inside the debounce
	// window.
	AllowDraw(window time.Duration) bool
	Close()
}
