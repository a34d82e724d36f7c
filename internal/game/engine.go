package game

import (
	"github.com/featherfall/exploding-chickens/internal/apperrors"
	"github.com/featherfall/exploding-chickens/internal/game/card"
)

// OutcomeKind tags the result of one resolution step.
type OutcomeKind string

const (
	// OutcomeComplete means the effect fully applied, discard done, turn
	// advanced per the card's rule.
	OutcomeComplete OutcomeKind = "complete"
	// OutcomeIncomplete means more client input is needed; no state mutated
	// beyond validation. Retrying without a target yields Incomplete again;
	// supplying a valid target mutates exactly once.
	OutcomeIncomplete OutcomeKind = "incomplete"
	// OutcomeError means the action was invalid and nothing mutated.
	OutcomeError OutcomeKind = "error"
)

// Target carries the optional follow-up input of a multi-step play: a
// player to steal from, or a draw-pile offset for reinsertion.
type Target struct {
	PlayerID string `json:"player_id,omitempty"`
	Position *int   `json:"position,omitempty"`
}

// DrawSource selects which end of the pile a draw takes from.
type DrawSource string

const (
	DrawTop    DrawSource = "top"
	DrawBottom DrawSource = "bottom"
)

// Outcome is the tagged result of PlayCard/DrawCard. Err is only set for
// OutcomeError; Need names the missing input for OutcomeIncomplete.
type Outcome struct {
	Kind OutcomeKind          `json:"kind"`
	Need string               `json:"need,omitempty"`
	Err  *apperrors.GameError `json:"-"`

	// Resolution details for the caller/broadcast.
	Played    card.Kind    `json:"played,omitempty"`
	Drawn     *card.Card   `json:"drawn,omitempty"`
	Stolen    *card.Card   `json:"stolen,omitempty"`
	Future    []*card.Card `json:"future,omitempty"`
	Exploding bool         `json:"exploding,omitempty"`
	WinnerID  string       `json:"winner_id,omitempty"`
}

func complete() Outcome {
	return Outcome{Kind: OutcomeComplete}
}

func incomplete(need string) Outcome {
	return Outcome{Kind: OutcomeIncomplete, Need: need}
}

func fail(err *apperrors.GameError) Outcome {
	return Outcome{Kind: OutcomeError, Err: err}
}

// resolve routes a validated play to its per-kind branch. Callers hold the
// game lock and have verified turn, ownership and the exploding gate.
func (g *Game) resolve(p *Player, c *card.Card, t Target) Outcome {
	switch {
	case c.Kind == card.KindAttack:
		return g.playAttack(p, c)
	case c.Kind == card.KindDefuse:
		return g.playDefuse(p, c, t)
	case c.Kind.IsChicken():
		return g.playChicken(p, c)
	case c.Kind.IsFavorClass():
		return g.playFavor(p, c, t)
	case c.Kind == card.KindReverse:
		return g.playReverse(p, c)
	case c.Kind == card.KindSeeTheFuture:
		return g.playSeeTheFuture(p, c)
	case c.Kind == card.KindShuffle:
		return g.playShuffle(p, c)
	case c.Kind == card.KindSkip:
		return g.playSkip(p, c)
	case c.Kind == card.KindHotPotato:
		return g.playHotPotato(p, c)
	case c.Kind == card.KindScrambledEggs:
		return g.playScrambledEggs(p, c)
	case c.Kind == card.KindSuperSkip:
		return g.playSuperSkip(p, c)
	case c.Kind == card.KindSafetyDraw:
		return g.playSafetyDraw(p, c)
	case c.Kind == card.KindDrawBottom:
		return g.playDrawBottom(p, c)
	default:
		return fail(apperrors.ErrUnknownAction)
	}
}

// discard moves a played card to the top of the discard pile and closes the
// gap it left in its hand.
func (g *Game) discard(c *card.Card) {
	from := c.Zone
	c.Zone = card.ZoneDiscard
	c.Position = card.CountInZone(g.Cards, card.ZoneDiscard) - 1
	card.Compact(g.Cards, from)
}
