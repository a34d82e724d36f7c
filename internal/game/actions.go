package game

import (
	"github.com/featherfall/exploding-chickens/internal/apperrors"
	"github.com/featherfall/exploding-chickens/internal/game/card"
)

// playAttack shifts the turn to the next seat and loads it with two more
// repetitions (stacking on top of an existing chain). The attacker's own
// turn is not consumed.
func (g *Game) playAttack(p *Player, c *card.Card) Outcome {
	next, err := NextSeat(g.Seat, g.Direction, g.Players)
	if err != nil {
		return fail(err)
	}

	prev := g.TurnsRemaining
	g.discard(c)
	g.Seat = next
	if prev <= 1 {
		g.TurnsRemaining = 2
	} else {
		g.TurnsRemaining = prev + 2
	}
	return complete()
}

// playDefuse reinserts the exploding player's chicken at a client-chosen
// offset from the top of the draw pile. Without a position the play is
// Incomplete and nothing moves.
func (g *Game) playDefuse(p *Player, c *card.Card, t Target) Outcome {
	chicken := g.takeKind(card.Hand(p.ID), card.KindChicken)
	if chicken == nil {
		return fail(apperrors.ErrNotExploding)
	}

	pileSize := card.CountInZone(g.Cards, card.ZoneDrawDeck)
	if t.Position == nil {
		return incomplete("position")
	}
	offset := *t.Position
	if offset < 0 || offset > pileSize {
		return fail(apperrors.ErrInvalidTarget)
	}

	// Offset is measured from the top; position 0 is the pile bottom.
	if err := card.InsertAt(g.Cards, chicken.ID, card.ZoneDrawDeck, pileSize-offset); err != nil {
		return fail(err)
	}
	chicken.PlacedBy = p.ID
	card.Compact(g.Cards, card.Hand(p.ID))
	p.Exploding = false

	g.discard(c)
	g.advanceTurn()
	return complete()
}

// playChicken concedes: the player dies and their remaining cards leave
// play, which keeps chickens-in-circulation at alive−1.
func (g *Game) playChicken(p *Player, c *card.Card) Outcome {
	p.Status = StatusDead
	p.Exploding = false

	hand := card.InZone(g.Cards, card.Hand(p.ID))
	base := card.CountInZone(g.Cards, card.ZoneOutOfPlay)
	for i, hc := range hand {
		hc.Zone = card.ZoneOutOfPlay
		hc.Position = base + i
	}

	out := complete()
	if w := g.checkWin(); w != nil {
		out.WinnerID = w.ID
		return out
	}
	g.forceAdvance()
	return out
}

// playFavor covers favor, favorgator and the randchick pairs: one uniformly
// random card moves from the target's hand to the actor's. A favorgator in
// the target's hand reverses the transfer.
func (g *Game) playFavor(p *Player, c *card.Card, t Target) Outcome {
	if t.PlayerID == "" {
		return incomplete("player")
	}
	target := g.playerByID(t.PlayerID)
	if target == nil || target.ID == p.ID || !target.IsAlive() {
		return fail(apperrors.ErrInvalidTarget)
	}
	if card.CountInZone(g.Cards, card.Hand(target.ID)) == 0 {
		return fail(apperrors.ErrTargetEmptyHand)
	}

	// Randchicks only work as a discarded pair of the identical kind.
	var pair *card.Card
	if c.Kind.IsRandchick() {
		for _, hc := range card.InZone(g.Cards, card.Hand(p.ID)) {
			if hc.Kind == c.Kind && hc.ID != c.ID {
				pair = hc
				break
			}
		}
		if pair == nil {
			return fail(apperrors.ErrNoMatchingPair)
		}
	}

	g.discard(c)
	if pair != nil {
		g.discard(pair)
	}

	from, to := target, p
	if card.CountKind(g.Cards, card.Hand(target.ID), card.KindFavorGator) > 0 {
		from, to = p, target
	}

	out := complete()
	fromHand := card.InZone(g.Cards, card.Hand(from.ID))
	if len(fromHand) == 0 {
		// Reversal against an emptied hand moves nothing.
		return out
	}
	stolen := fromHand[g.rng.Intn(len(fromHand))]
	stolen.Zone = card.Hand(to.ID)
	stolen.Position = card.CountInZone(g.Cards, card.Hand(to.ID)) - 1
	card.Compact(g.Cards, card.Hand(from.ID))
	card.Compact(g.Cards, card.Hand(to.ID))

	out.Stolen = stolen
	return out
}

func (g *Game) playReverse(p *Player, c *card.Card) Outcome {
	g.discard(c)
	g.Direction = g.Direction.Flip()
	g.advanceTurn()
	return complete()
}

// playSeeTheFuture discards and returns the top three draw-pile cards as a
// read-only payload for the acting player only.
func (g *Game) playSeeTheFuture(p *Player, c *card.Card) Outcome {
	g.discard(c)

	pile := card.InZone(g.Cards, card.ZoneDrawDeck)
	out := complete()
	for i := len(pile) - 1; i >= 0 && len(out.Future) < 3; i-- {
		out.Future = append(out.Future, pile[i])
	}
	return out
}

func (g *Game) playShuffle(p *Player, c *card.Card) Outcome {
	g.discard(c)
	card.ShuffleZone(g.Cards, card.ZoneDrawDeck, g.rng)
	return complete()
}

func (g *Game) playSkip(p *Player, c *card.Card) Outcome {
	g.discard(c)
	g.advanceTurn()
	return complete()
}

// playHotPotato hands the undrawn fate to the next living seat: the chicken
// moves into their hand and they are the ones exploding now.
func (g *Game) playHotPotato(p *Player, c *card.Card) Outcome {
	chicken := g.takeKind(card.Hand(p.ID), card.KindChicken)
	if chicken == nil {
		return fail(apperrors.ErrNotExploding)
	}
	next, err := NextSeat(g.Seat, g.Direction, g.Players)
	if err != nil {
		return fail(err)
	}
	receiver := g.playerBySeat(next)

	g.discard(c)
	chicken.Zone = card.Hand(receiver.ID)
	chicken.Position = card.CountInZone(g.Cards, card.Hand(receiver.ID)) - 1
	chicken.PlacedBy = p.ID
	card.Compact(g.Cards, card.Hand(p.ID))

	p.Exploding = false
	receiver.Exploding = true
	g.Seat = next
	g.TurnsRemaining = 1
	return complete()
}

// playScrambledEggs pools every hand and redeals at random, preserving each
// player's hand size.
func (g *Game) playScrambledEggs(p *Player, c *card.Card) Outcome {
	g.discard(c)

	var pool []*card.Card
	sizes := make(map[string]int)
	for _, pl := range g.Players {
		if !pl.IsAlive() {
			continue
		}
		hand := card.InZone(g.Cards, card.Hand(pl.ID))
		sizes[pl.ID] = len(hand)
		pool = append(pool, hand...)
	}

	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	idx := 0
	for _, pl := range g.Players {
		if !pl.IsAlive() {
			continue
		}
		for pos := 0; pos < sizes[pl.ID]; pos++ {
			pool[idx].Zone = card.Hand(pl.ID)
			pool[idx].Position = pos
			idx++
		}
	}
	return complete()
}

// playSuperSkip ends the seat's whole visit: remaining repetitions are
// forced to one, the turn advances once, and the owed count carries over
// to the next seat.
func (g *Game) playSuperSkip(p *Player, c *card.Card) Outcome {
	prev := g.TurnsRemaining
	g.discard(c)
	g.TurnsRemaining = 1
	g.advanceTurn()
	g.TurnsRemaining = prev
	return complete()
}

// playSafetyDraw draws the first non-chicken card from the top of the pile.
func (g *Game) playSafetyDraw(p *Player, c *card.Card) Outcome {
	pile := card.InZone(g.Cards, card.ZoneDrawDeck)
	var safe *card.Card
	for i := len(pile) - 1; i >= 0; i-- {
		if !pile[i].Kind.IsChicken() {
			safe = pile[i]
			break
		}
	}
	if safe == nil {
		return fail(apperrors.Validation("only chickens left in the draw pile"))
	}

	g.discard(c)
	safe.Zone = card.Hand(p.ID)
	safe.Position = card.CountInZone(g.Cards, card.Hand(p.ID)) - 1
	card.Compact(g.Cards, card.ZoneDrawDeck)

	out := complete()
	out.Drawn = safe
	g.advanceTurn()
	return out
}

// playDrawBottom draws from the pile bottom; drawing a chicken starts the
// exploding sequence without advancing the turn.
func (g *Game) playDrawBottom(p *Player, c *card.Card) Outcome {
	if card.CountInZone(g.Cards, card.ZoneDrawDeck) == 0 {
		return fail(apperrors.Validation("the draw pile is empty"))
	}
	g.discard(c)

	pile := card.InZone(g.Cards, card.ZoneDrawDeck)
	drawn := pile[0]
	drawn.Zone = card.Hand(p.ID)
	drawn.Position = card.CountInZone(g.Cards, card.Hand(p.ID)) - 1
	card.Compact(g.Cards, card.ZoneDrawDeck)

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
