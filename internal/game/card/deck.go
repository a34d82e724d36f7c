package card

import (
	"math/rand"
	"sort"

	"github.com/featherfall/exploding-chickens/internal/apperrors"
)

// InZone 按 Position 升序返回指定区域的卡牌
func InZone(cards []*Card, z Zone) []*Card {
	out := make([]*Card, 0, len(cards))
	for _, c := range cards {
		if c.Zone == z {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// CountInZone returns the number of cards in a zone.
func CountInZone(cards []*Card, z Zone) int {
	n := 0
	for _, c := range cards {
		if c.Zone == z {
			n++
		}
	}
	return n
}

// CountKind returns how many cards of a kind sit in a zone.
func CountKind(cards []*Card, z Zone, k Kind) int {
	n := 0
	for _, c := range cards {
		if c.Zone == z && c.Kind == k {
			n++
		}
	}
	return n
}

// Find 按 ID 查找卡牌
func Find(cards []*Card, id string) (*Card, *apperrors.GameError) {
	for _, c := range cards {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.ErrCardNotInHand
}

// Move reassigns a card's zone and position. The caller is responsible for
// shifting sibling positions; leaving two cards on the same slot is a
// programming error, not a recoverable condition.
func Move(cards []*Card, id string, z Zone, pos int) *apperrors.GameError {
	c, err := Find(cards, id)
	if err != nil {
		return err
	}
	c.Zone = z
	c.Position = pos
	return nil
}

// InsertAt opens a slot at pos in the destination zone (shifting cards at or
// above pos up by one) and moves the card into it.
func InsertAt(cards []*Card, id string, z Zone, pos int) *apperrors.GameError {
	for _, c := range cards {
		if c.Zone == z && c.Position >= pos && c.ID != id {
			c.Position++
		}
	}
	return Move(cards, id, z, pos)
}

// Compact renumbers a zone to consecutive positions starting at 0,
// preserving order. Used after a card leaves the middle of a zone.
func Compact(cards []*Card, z Zone) {
	for i, c := range InZone(cards, z) {
		c.Position = i
	}
}

// ShuffleZone randomizes positions within one zone only. It uses a bucket
// strategy: repeatedly pick a uniformly random remaining card, assign it the
// next position, and remove it from the pool. Cards outside the zone are
// untouched.
func ShuffleZone(cards []*Card, z Zone, rng *rand.Rand) {
	pool := InZone(cards, z)
	next := 0
	for len(pool) > 0 {
		i := rng.Intn(len(pool))
		pool[i].Position = next
		next++
		pool[i] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
}

func sortByID(cards []*Card) {
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
}
