//go:build !production

package testutil

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/featherfall/exploding-chickens/internal/protocol"
)

// MockClient 实现 types.ClientInterface 的 mock
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetLobby() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetPlayerID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetPlayerID(id string) {
	m.Called(id)
}

func (m *MockClient) SendMessage(msg *protocol.Message) {
	m.Called(msg)
}

func (m *MockClient) AllowDraw(window time.Duration) bool {
	args := m.Called(window)
	return args.Bool(0)
}

func (m *MockClient) Close() {
	m.Called()
}

// SimpleClient 简单的 mock 客户端，不使用 testify（用于不需要断言的测试）
type SimpleClient struct {
	ID        string
	LobbySlug string
	PlayerID  string
	DrawBusy  bool
	Messages  []*protocol.Message
}

func (m *SimpleClient) GetID() string                     { return m.ID }
func (m *SimpleClient) GetLobby() string                  { return m.LobbySlug }
func (m *SimpleClient) GetPlayerID() string               { return m.PlayerID }
func (m *SimpleClient) SetPlayerID(id string)             { m.PlayerID = id }
func (m *SimpleClient) SendMessage(msg *protocol.Message) { m.Messages = append(m.Messages, msg) }
func (m *SimpleClient) AllowDraw(time.Duration) bool      { return !m.DrawBusy }
func (m *SimpleClient) Close()                            {}

// LastMessage returns the most recent message, or nil.
func (m *SimpleClient) LastMessage() *protocol.Message {
	if len(m.Messages) == 0 {
		return nil
	}
	return m.Messages[len(m.Messages)-1]
}

// MessagesOfType filters the captured messages.
func (m *SimpleClient) MessagesOfType(t protocol.MessageType) []*protocol.Message {
	var out []*protocol.Message
	for _, msg := range m.Messages {
		if msg.Type == t {
			out = append(out, msg)
		}
	}
	return out
}
