//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/featherfall/exploding-chickens/internal/lobby"
)

// MockStore 实现 lobby.Store 的 mock
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveLobby(ctx context.Context, l *lobby.Lobby) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockStore) LoadLobby(ctx context.Context, slug string) (*lobby.Lobby, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lobby.Lobby), args.Error(1)
}

func (m *MockStore) DeleteLobby(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func (m *MockStore) ListSlugs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockReporter 实现 game.Reporter 的 mock
type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) Increment(metric string) {
	m.Called(metric)
}
