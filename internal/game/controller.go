package game

import (
	"fmt"

	"github.com/featherfall/exploding-chickens/internal/apperrors"
	"github.com/featherfall/exploding-chickens/internal/game/card"
)

// explodingOnly lists the kinds a player may play while holding a drawn
// chicken; outside that state the same kinds are unplayable. There are no
// turn-independent cards: the turn check is strict.
func explodingOnly(k card.Kind) bool {
	return k == card.KindDefuse || k.IsChicken() || k == card.KindHotPotato
}

// PlayCard validates turn legality and ownership, then delegates to the
// resolution engine. The whole call runs under the game's writer lock; the
// caller persists the aggregate before answering the client.
func (g *Game) PlayCard(playerID, cardID string, t Target) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, failOut := g.validateActor(playerID)
	if failOut != nil {
		return *failOut
	}

	c, err := card.Find(g.Cards, cardID)
	if err != nil {
		return fail(err)
	}
	if c.Zone != card.Hand(p.ID) {
		return fail(apperrors.ErrCardNotInHand)
	}

	if p.Exploding && !explodingOnly(c.Kind) {
		return fail(apperrors.ErrExploding)
	}
	if !p.Exploding && explodingOnly(c.Kind) {
		return fail(apperrors.ErrNotExploding)
	}

	out := g.resolve(p, c, t)
	out.Played = c.Kind
	if out.Kind == OutcomeComplete {
		g.appendEvent(p.ID, "play-card", string(c.Kind))
		if out.WinnerID == "" {
			if w := g.checkWin(); w != nil {
				out.WinnerID = w.ID
			}
		}
	}
	return out
}

// DrawCard pops a card from the chosen end of the pile into the acting
// player's hand. Drawing a chicken flips the player to exploding and keeps
// the turn in place until the chicken is resolved.
func (g *Game) DrawCard(playerID string, source DrawSource) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, failOut := g.validateActor(playerID)
	if failOut != nil {
		return *failOut
	}
	if p.Exploding {
		return fail(apperrors.ErrExploding)
	}

	pile := card.InZone(g.Cards, card.ZoneDrawDeck)
	if len(pile) == 0 {
		return fail(apperrors.Validation("the draw pile is empty"))
	}

	var drawn *card.Card
	if source == DrawBottom {
		drawn = pile[0]
	} else {
		drawn = pile[len(pile)-1]
	}

	drawn.Zone = card.Hand(p.ID)
	drawn.Position = card.CountInZone(g.Cards, card.Hand(p.ID)) - 1
	card.Compact(g.Cards, card.ZoneDrawDeck)
	g.appendEvent(p.ID, "draw-card", fmt.Sprintf("from %s", source))

	out := complete()
	out.Drawn = drawn
	if drawn.Kind.IsChicken() {
		p.Exploding = true
		out.Exploding = true
		return out
	}
	g.advanceTurn()
	return out
}

// validateActor runs the shared preamble of every client intent: the game
// is running, the player is seated, alive, and holds the current turn.
func (g *Game) validateActor(playerID string) (*Player, *Outcome) {
	errOut := func(e *apperrors.GameError) (*Player, *Outcome) {
		out := fail(e)
		return nil, &out
	}

	if g.Status != StatusInGame {
		return errOut(apperrors.ErrGameNotStarted)
	}
	p := g.playerByID(playerID)
	if p == nil {
		return errOut(apperrors.ErrPlayerNotFound)
	}
	if !p.IsAlive() {
		return errOut(apperrors.ErrPlayerDead)
	}
	if p.Seat != g.Seat {
		return errOut(apperrors.ErrNotYourTurn)
	}
	return p, nil
}
