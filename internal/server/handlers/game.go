package handlers

import (
	"github.com/featherfall/exploding-chickens/internal/apperrors"
	"github.com/featherfall/exploding-chickens/internal/game"
	"github.com/featherfall/exploding-chickens/internal/lobby"
	"github.com/featherfall/exploding-chickens/internal/protocol"
	"github.com/featherfall/exploding-chickens/internal/server/types"
)

// currentGame resolves the table the acting player sits at.
func (h *Handler) currentGame(client types.ClientInterface, intent protocol.MessageType) (*lobby.Lobby, *game.Game, string, bool) {
	l, ok := h.currentLobby(client, intent)
	if !ok {
		return nil, nil, "", false
	}
	playerID, ok := requirePlayer(client, intent)
	if !ok {
		return nil, nil, "", false
	}
	g := l.GameOf(playerID)
	if g == nil {
		fail(client, intent, apperrors.ErrGameNotFound)
		return nil, nil, "", false
	}
	return l, g, playerID, true
}

// handlePlayCard 出牌
func (h *Handler) handlePlayCard(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.PlayCardPayload](client, msg)
	if !ok {
		return
	}
	l, g, playerID, ok := h.currentGame(client, msg.Type)
	if !ok {
		return
	}

	out := g.PlayCard(playerID, payload.CardID, game.Target{
		PlayerID: payload.TargetPlayerID,
		Position: payload.Position,
	})
	h.deliverOutcome(client, l, g, msg.Type, "play-card", out)
}

// handleDrawCard 摸牌
func (h *Handler) handleDrawCard(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.DrawCardPayload](client, msg)
	if !ok {
		return
	}
	l, g, playerID, ok := h.currentGame(client, msg.Type)
	if !ok {
		return
	}

	// 去抖：双击只算一次摸牌
	if !client.AllowDraw(h.server.DrawDebounce()) {
		return
	}

	source := game.DrawTop
	if payload.Source == string(game.DrawBottom) {
		source = game.DrawBottom
	}
	out := g.DrawCard(playerID, source)
	h.deliverOutcome(client, l, g, msg.Type, "draw-card", out)
}

// deliverOutcome answers the actor, and on a completed action persists and
// fans the new table state out. The persist happens before the answer so an
// acknowledged move survives a crash.
func (h *Handler) deliverOutcome(client types.ClientInterface, l *lobby.Lobby, g *game.Game, intent protocol.MessageType, trigger string, out game.Outcome) {
	switch out.Kind {
	case game.OutcomeError:
		fail(client, intent, out.Err)

	case game.OutcomeIncomplete:
		client.SendMessage(protocol.MustNewMessage(protocol.MsgPlayResult, protocol.PlayResultPayload{
			Outcome: string(game.OutcomeIncomplete),
			Need:    out.Need,
			Played:  string(out.Played),
		}))

	case game.OutcomeComplete:
		if !h.persist(client, intent, l) {
			return
		}
		client.SendMessage(protocol.MustNewMessage(protocol.MsgPlayResult, playResult(out)))
		h.server.PushGame(l, g, trigger)
		if out.WinnerID != "" {
			// The table went back to the lobby; rosters and win counts moved.
			h.server.PushLobby(l, "win")
		}
	}
}

func playResult(out game.Outcome) protocol.PlayResultPayload {
	result := protocol.PlayResultPayload{
		Outcome:   string(game.OutcomeComplete),
		Played:    string(out.Played),
		Exploding: out.Exploding,
		WinnerID:  out.WinnerID,
	}
	if out.Drawn != nil {
		v := protocol.NewCardView(out.Drawn)
		result.Drawn = &v
	}
	if out.Stolen != nil {
		v := protocol.NewCardView(out.Stolen)
		result.Stolen = &v
	}
	for _, c := range out.Future {
		result.Future = append(result.Future, protocol.NewCardView(c))
	}
	return result
}
