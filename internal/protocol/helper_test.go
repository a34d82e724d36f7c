package protocol

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featherfall/exploding-chickens/internal/apperrors"
	"github.com/featherfall/exploding-chickens/internal/game"
	"github.com/featherfall/exploding-chickens/internal/lobby"
)

func TestMessageRoundTrip(t *testing.T) {
	pos := 3
	msg := MustNewMessage(MsgPlayCard, PlayCardPayload{
		CardID:   "card-1",
		Position: &pos,
	})

	data, err := msg.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, MsgPlayCard, decoded.Type)

	payload, err := ParsePayload[PlayCardPayload](decoded)
	require.NoError(t, err)
	assert.Equal(t, "card-1", payload.CardID)
	require.NotNil(t, payload.Position)
	assert.Equal(t, 3, *payload.Position)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestErrorTypes(t *testing.T) {
	assert.Equal(t, MessageType("play-card-error"), ErrorType(MsgPlayCard))
	assert.True(t, ErrorType(MsgPlayCard).IsError())
	assert.False(t, MsgPlayCard.IsError())
	assert.False(t, MessageType("-error").IsError())

	msg := NewErrorMessage(MsgDrawCard, apperrors.ErrNotYourTurn)
	assert.Equal(t, MessageType("draw-card-error"), msg.Type)
	payload, err := ParsePayload[ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, apperrors.ErrNotYourTurn.Code, payload.Code)
}

func TestProjectGame_HidesOtherHands(t *testing.T) {
	l := lobby.NewLobby("plucky-walrus", rand.New(rand.NewSource(4)), nil)
	_, aerr := l.AddPlayer("Player 0", "fox.png")
	require.Nil(t, aerr)
	_, aerr = l.AddPlayer("Player 1", "owl.png")
	require.Nil(t, aerr)
	require.Nil(t, l.StartGames())
	g := l.Games[0]
	me := l.Players[0]

	view := ProjectGame(g, me.ID)
	assert.Equal(t, string(game.StatusInGame), view.Status)
	assert.Len(t, view.Hand, 5, "own hand rides along")
	assert.Positive(t, view.DrawCount)
	for _, pv := range view.Players {
		assert.Equal(t, 5, pv.HandSize)
	}

	spectator := ProjectGame(g, "")
	assert.Empty(t, spectator.Hand)
}

func TestProjectLobby(t *testing.T) {
	l := lobby.NewLobby("plucky-walrus", rand.New(rand.NewSource(4)), nil)
	_, aerr := l.AddPlayer("Player 0", "fox.png")
	require.Nil(t, aerr)
	_, aerr = l.AddPlayer("Player 1", "owl.png")
	require.Nil(t, aerr)
	require.Nil(t, l.StartGames())

	view := ProjectLobby(l)
	assert.Equal(t, "plucky-walrus", view.Slug)
	assert.Len(t, view.Players, 2)
	require.Len(t, view.Games, 1)
	assert.Len(t, view.Games[0].PlayerIDs, 2)
	assert.Equal(t, string(game.RoleHost), view.Players[0].Role)
}
