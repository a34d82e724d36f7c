package game

import (
	"fmt"

	"github.com/featherfall/exploding-chickens/internal/apperrors"
	"github.com/featherfall/exploding-chickens/internal/game/card"
)

const fillerCardsPerPlayer = 4

// DealHands starts a hand: seats are randomized, every player gets one
// guaranteed defuse plus filler cards, and exactly players−1 chickens are
// shuffled into the remaining draw pile. Surplus chickens sit out of play,
// keeping the chickens-in-circulation invariant at alive−1.
func (g *Game) DealHands() *apperrors.GameError {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Status != StatusInLobby {
		return apperrors.ErrGameInProgress
	}
	if len(g.Players) < 2 {
		return apperrors.Validation("at least two players are needed")
	}

	if len(g.Cards) == 0 {
		g.Cards = card.NewPack(card.PackBase, 0)
		for _, p := range g.ImportedPacks {
			g.Cards = append(g.Cards, card.NewPack(p, len(g.Cards))...)
		}
	}

	// Fresh layout: everything back in the draw pile.
	for i, c := range g.Cards {
		c.Zone = card.ZoneDrawDeck
		c.Position = i
		c.PlacedBy = ""
	}

	// Random seat order.
	g.rng.Shuffle(len(g.Players), func(i, j int) {
		g.Players[i], g.Players[j] = g.Players[j], g.Players[i]
	})
	for i, p := range g.Players {
		p.Seat = i
		p.Status = StatusAlive
		p.Exploding = false
	}

	// Chickens out of the pile while hands are dealt.
	var chickens []*card.Card
	for _, c := range g.Cards {
		if c.Kind.IsChicken() {
			c.Zone = card.ZoneOutOfPlay
			chickens = append(chickens, c)
		}
	}
	if len(chickens) < len(g.Players)-1 {
		return apperrors.Validation("not enough chickens for this table")
	}
	card.Compact(g.Cards, card.ZoneDrawDeck)
	card.ShuffleZone(g.Cards, card.ZoneDrawDeck, g.rng)

	// One guaranteed defuse each.
	for _, p := range g.Players {
		defuse := g.takeKind(card.ZoneDrawDeck, card.KindDefuse)
		if defuse == nil {
			return apperrors.Validation("not enough defuses for this table")
		}
		g.moveToHand(defuse, p)
	}

	// Filler cards from the top of the shuffled pile.
	for _, p := range g.Players {
		for i := 0; i < fillerCardsPerPlayer; i++ {
			pile := card.InZone(g.Cards, card.ZoneDrawDeck)
			if len(pile) == 0 {
				return apperrors.Validation("not enough cards for this table")
			}
			g.moveToHand(pile[len(pile)-1], p)
		}
	}

	// players−1 chickens into the pile, reshuffled; the rest stay out.
	for i := 0; i < len(g.Players)-1; i++ {
		chickens[i].Zone = card.ZoneDrawDeck
		chickens[i].Position = card.CountInZone(g.Cards, card.ZoneDrawDeck)
	}
	card.Compact(g.Cards, card.ZoneDrawDeck)
	card.ShuffleZone(g.Cards, card.ZoneDrawDeck, g.rng)

	g.Seat = 0
	g.Direction = Forward
	g.TurnsRemaining = 1
	g.Status = StatusInGame
	g.appendEvent("", "deal", fmt.Sprintf("%d players, %d cards", len(g.Players), len(g.Cards)))
	return nil
}

// takeKind finds the lowest-positioned card of a kind in a zone, or nil.
// The card stays put until the caller rezones it. Callers hold the lock.
func (g *Game) takeKind(z card.Zone, k card.Kind) *card.Card {
	for _, c := range card.InZone(g.Cards, z) {
		if c.Kind == k {
			return c
		}
	}
	return nil
}

func (g *Game) moveToHand(c *card.Card, p *Player) {
	hand := card.Hand(p.ID)
	c.Zone = hand
	c.Position = card.CountInZone(g.Cards, hand) - 1
	card.Compact(g.Cards, card.ZoneDrawDeck)
	card.Compact(g.Cards, hand)
}

// ImportPack adds an expansion pack's cards to the draw deck. Only legal
// between hands; pack card multisets are the sole way the collection grows.
func (g *Game) ImportPack(p card.Pack) *apperrors.GameError {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Status != StatusInLobby {
		return apperrors.ErrGameInProgress
	}
	if !card.KnownPack(p) || p == card.PackBase {
		return apperrors.ErrInvalidTarget
	}
	for _, imported := range g.ImportedPacks {
		if imported == p {
			return apperrors.ErrPackImported
		}
	}

	if len(g.Cards) > 0 {
		g.Cards = append(g.Cards, card.NewPack(p, card.CountInZone(g.Cards, card.ZoneDrawDeck))...)
	}
	g.ImportedPacks = append(g.ImportedPacks, p)
	g.appendEvent("", "import-pack", string(p))
	return nil
}

// ExportPack removes a pack's cards from the collection wherever they sit.
func (g *Game) ExportPack(p card.Pack) *apperrors.GameError {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Status != StatusInLobby {
		return apperrors.ErrGameInProgress
	}
	found := false
	kept := g.ImportedPacks[:0]
	for _, imported := range g.ImportedPacks {
		if imported == p {
			found = true
			continue
		}
		kept = append(kept, imported)
	}
	if !found {
		return apperrors.ErrPackNotImported
	}
	g.ImportedPacks = kept

	cards := g.Cards[:0]
	zones := make(map[card.Zone]bool)
	for _, c := range g.Cards {
		if c.Pack == p {
			zones[c.Zone] = true
			continue
		}
		cards = append(cards, c)
	}
	g.Cards = cards
	for z := range zones {
		card.Compact(g.Cards, z)
	}
	g.appendEvent("", "export-pack", string(p))
	return nil
}
