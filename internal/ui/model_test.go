package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featherfall/exploding-chickens/internal/protocol"
)

func testModel() *Model {
	return NewModel("ws://localhost:3000/ws", "plucky-walrus")
}

func lobbySnapshot(trigger string, players ...protocol.PlayerView) *protocol.Message {
	return protocol.MustNewMessage(protocol.MsgLobbyUpdate, protocol.LobbyUpdatePayload{
		Trigger: trigger,
		Lobby: protocol.LobbyView{
			Slug:    "plucky-walrus",
			Players: players,
		},
	})
}

func TestHandleConnected_StoresPlayerID(t *testing.T) {
	m := testModel()
	m.phase = PhaseNickname

	msg := protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		LobbySlug: "plucky-walrus",
		PlayerID:  "p1",
	})
	m.handleServerMessage(msg)

	assert.Equal(t, "p1", m.playerID)
	assert.Equal(t, PhaseLobby, m.phase)
}

func TestHandleLobbyUpdate(t *testing.T) {
	m := testModel()
	m.playerID = "p1"

	m.handleServerMessage(lobbySnapshot("create-player",
		protocol.PlayerView{ID: "p1", Nickname: "Egg Hunter", Role: "host"},
		protocol.PlayerView{ID: "p2", Nickname: "Chick Norris", Role: "player"},
	))

	assert.Len(t, m.lobbyView.Players, 2)
	assert.True(t, m.isHost())
}

func TestHandleLobbyUpdate_KickedPlayerQuits(t *testing.T) {
	m := testModel()
	m.playerID = "p2"

	// The kicked player is gone from the pushed roster.
	cmd := m.handleServerMessage(lobbySnapshot("kick-player",
		protocol.PlayerView{ID: "p1", Nickname: "Egg Hunter", Role: "host"},
	))

	require.NotNil(t, cmd)
	assert.NotEmpty(t, m.errorText)
}

func TestHandleGameUpdate_EntersPlaying(t *testing.T) {
	m := testModel()
	m.playerID = "p1"
	m.phase = PhaseLobby

	msg := protocol.MustNewMessage(protocol.MsgGameUpdate, protocol.GameUpdatePayload{
		Trigger: "start-games",
		Game: protocol.GameView{
			Slug:   "plucky-walrus-heron",
			Status: "in_game",
			Seat:   0,
			Players: []protocol.PlayerView{
				{ID: "p1", Seat: 0, Status: "alive", HandSize: 5},
				{ID: "p2", Seat: 1, Status: "alive", HandSize: 5},
			},
			Hand: []protocol.CardView{{ID: "c1", Kind: "defuse"}, {ID: "c2", Kind: "shuffle"}},
		},
	})
	m.handleServerMessage(msg)

	assert.Equal(t, PhasePlaying, m.phase)
	assert.True(t, m.myTurn())
	assert.Len(t, m.gameView.Hand, 2)
}

func TestHandleGameUpdate_WinnerEndsGame(t *testing.T) {
	m := testModel()
	m.playerID = "p1"
	m.phase = PhasePlaying

	msg := protocol.MustNewMessage(protocol.MsgGameUpdate, protocol.GameUpdatePayload{
		Trigger: "draw-card",
		Game: protocol.GameView{
			Slug:   "plucky-walrus-heron",
			Status: "in_game",
			Players: []protocol.PlayerView{
				{ID: "p1", Seat: 0, Status: "winner"},
				{ID: "p2", Seat: 1, Status: "dead"},
			},
		},
	})
	m.handleServerMessage(msg)

	assert.Equal(t, PhaseGameOver, m.phase)
	assert.Equal(t, "p1", m.winnerID)
}

func TestHandlePlayResult_IncompleteOpensPrompt(t *testing.T) {
	m := testModel()
	m.phase = PhasePlaying
	m.pendingCard = "c9" // set when the play was sent

	msg := protocol.MustNewMessage(protocol.MsgPlayResult, protocol.PlayResultPayload{
		Outcome: "incomplete",
		Need:    "position",
		Played:  "defuse",
	})
	m.handleServerMessage(msg)

	assert.Equal(t, "position", m.need)
	assert.Equal(t, "c9", m.pendingCard, "the retry re-sends the same card")
}

func TestHandlePlayResult_FutureNotice(t *testing.T) {
	m := testModel()

	msg := protocol.MustNewMessage(protocol.MsgPlayResult, protocol.PlayResultPayload{
		Outcome: "complete",
		Future:  []protocol.CardView{{Kind: "chicken"}, {Kind: "skip"}},
	})
	cmd := m.handleServerMessage(msg)

	require.NotNil(t, cmd)
	assert.Contains(t, m.notice, "chicken")
}

func TestHandleError_ShowsMessage(t *testing.T) {
	m := testModel()

	msg := protocol.MustNewMessage(protocol.ErrorType(protocol.MsgPlayCard), protocol.ErrorPayload{
		Code:    "VALIDATION",
		Message: "not your turn",
	})
	m.handleServerMessage(msg)

	assert.Equal(t, "not your turn", m.errorText)
}

func TestHandleGameKey_Selection(t *testing.T) {
	m := testModel()
	m.phase = PhasePlaying
	m.gameView.Hand = []protocol.CardView{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}

	right := tea.KeyMsg{Type: tea.KeyRight}
	left := tea.KeyMsg{Type: tea.KeyLeft}

	handled, _ := m.handleKeyPress(right)
	assert.True(t, handled)
	assert.Equal(t, 1, m.selected)

	m.handleKeyPress(right)
	m.handleKeyPress(right) // already at the end
	assert.Equal(t, 2, m.selected)

	m.handleKeyPress(left)
	assert.Equal(t, 1, m.selected)
}

func TestView_RendersByPhase(t *testing.T) {
	m := testModel()

	m.phase = PhaseNickname
	assert.Contains(t, m.View(), "昵称")

	m.phase = PhaseLobby
	m.lobbyView.Slug = "plucky-walrus"
	assert.Contains(t, m.View(), "plucky-walrus")

	m.phase = PhasePlaying
	m.gameView = protocol.GameView{
		Slug:      "plucky-walrus-heron",
		Status:    "in_game",
		DrawCount: 12,
		Players:   []protocol.PlayerView{{ID: "p2", Nickname: "Chick Norris", Seat: 0, Status: "alive", HandSize: 5}},
	}
	out := m.View()
	assert.Contains(t, out, "Chick Norris")
	assert.Contains(t, out, "12")
}
