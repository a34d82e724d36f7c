//go:build !production

package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/featherfall/exploding-chickens/internal/game"
	"github.com/featherfall/exploding-chickens/internal/lobby"
)

// FakeServer 实现 types.ServerContext，记录推送与持久化调用
type FakeServer struct {
	Mgr      *lobby.Manager
	Debounce time.Duration

	mu           sync.Mutex
	LobbyPushes  []string // triggers, in order
	GamePushes   []string
	PersistCount int
	PersistErr   error // returned from Persist when set
}

// NewFakeServer wires a manager without storage.
func NewFakeServer() *FakeServer {
	return &FakeServer{
		Mgr: lobby.NewManager(nil, game.NoopReporter{}, time.Hour),
	}
}

func (f *FakeServer) Manager() *lobby.Manager { return f.Mgr }

func (f *FakeServer) Persist(context.Context, *lobby.Lobby) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PersistCount++
	return f.PersistErr
}

func (f *FakeServer) PushLobby(_ *lobby.Lobby, trigger string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LobbyPushes = append(f.LobbyPushes, trigger)
}

func (f *FakeServer) PushGame(_ *lobby.Lobby, _ *game.Game, trigger string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GamePushes = append(f.GamePushes, trigger)
}

func (f *FakeServer) OnlineCount(string) int { return 0 }

func (f *FakeServer) DrawDebounce() time.Duration { return f.Debounce }
