package card

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPack_BaseManifest(t *testing.T) {
	cards := NewPack(PackBase, 0)
	require.NotEmpty(t, cards)

	kinds := make(map[Kind]int)
	positions := make(map[int]bool)
	for _, c := range cards {
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, ZoneDrawDeck, c.Zone)
		assert.Equal(t, PackBase, c.Pack)
		assert.False(t, positions[c.Position], "position %d assigned twice", c.Position)
		positions[c.Position] = true
		kinds[c.Kind]++
	}

	assert.Equal(t, 5, kinds[KindChicken])
	assert.Equal(t, 6, kinds[KindDefuse])
	assert.Equal(t, 4, kinds[KindAttack])
}

func TestNewPack_Offset(t *testing.T) {
	base := NewPack(PackBase, 0)
	expansion := NewPack(PackYolkingAround, len(base))

	for _, c := range expansion {
		assert.GreaterOrEqual(t, c.Position, len(base))
	}
}

func TestInZone_SortedByPosition(t *testing.T) {
	cards := []*Card{
		{ID: "a", Zone: ZoneDrawDeck, Position: 2},
		{ID: "b", Zone: ZoneDiscard, Position: 0},
		{ID: "c", Zone: ZoneDrawDeck, Position: 0},
		{ID: "d", Zone: ZoneDrawDeck, Position: 1},
	}

	draw := InZone(cards, ZoneDrawDeck)
	require.Len(t, draw, 3)
	assert.Equal(t, "c", draw[0].ID)
	assert.Equal(t, "d", draw[1].ID)
	assert.Equal(t, "a", draw[2].ID)
}

func TestInsertAt_ShiftsSiblings(t *testing.T) {
	cards := []*Card{
		{ID: "a", Zone: ZoneDrawDeck, Position: 0},
		{ID: "b", Zone: ZoneDrawDeck, Position: 1},
		{ID: "c", Zone: ZoneDrawDeck, Position: 2},
		{ID: "x", Zone: ZoneDiscard, Position: 0},
	}

	require.Nil(t, InsertAt(cards, "x", ZoneDrawDeck, 1))

	draw := InZone(cards, ZoneDrawDeck)
	require.Len(t, draw, 4)
	assert.Equal(t, "a", draw[0].ID)
	assert.Equal(t, "x", draw[1].ID)
	assert.Equal(t, "b", draw[2].ID)
	assert.Equal(t, "c", draw[3].ID)
	for i, c := range draw {
		assert.Equal(t, i, c.Position)
	}
}

func TestCompact_RenumbersAfterRemoval(t *testing.T) {
	cards := []*Card{
		{ID: "a", Zone: ZoneDrawDeck, Position: 0},
		{ID: "b", Zone: ZoneDrawDeck, Position: 1},
		{ID: "c", Zone: ZoneDrawDeck, Position: 2},
	}
	require.Nil(t, Move(cards, "b", ZoneDiscard, 0))
	Compact(cards, ZoneDrawDeck)

	draw := InZone(cards, ZoneDrawDeck)
	require.Len(t, draw, 2)
	assert.Equal(t, 0, draw[0].Position)
	assert.Equal(t, 1, draw[1].Position)
	assert.Equal(t, "a", draw[0].ID)
	assert.Equal(t, "c", draw[1].ID)
}

func TestShuffleZone_OnlyTouchesZone(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cards := NewPack(PackBase, 0)
	discarded := &Card{ID: "held", Zone: ZoneDiscard, Position: 7}
	cards = append(cards, discarded)

	ShuffleZone(cards, ZoneDrawDeck, rng)

	assert.Equal(t, 7, discarded.Position)
	assert.Equal(t, ZoneDiscard, discarded.Zone)

	// Positions must remain a permutation of [0..n).
	seen := make(map[int]bool)
	draw := InZone(cards, ZoneDrawDeck)
	for _, c := range draw {
		assert.GreaterOrEqual(t, c.Position, 0)
		assert.Less(t, c.Position, len(draw))
		assert.False(t, seen[c.Position])
		seen[c.Position] = true
	}
}

func TestShuffleZone_Uniformish(t *testing.T) {
	// A fixed card should land on the bottom slot roughly 1/n of the time.
	rng := rand.New(rand.NewSource(1))
	const rounds = 2000
	cards := []*Card{
		{ID: "a", Zone: ZoneDrawDeck, Position: 0},
		{ID: "b", Zone: ZoneDrawDeck, Position: 1},
		{ID: "c", Zone: ZoneDrawDeck, Position: 2},
		{ID: "d", Zone: ZoneDrawDeck, Position: 3},
	}
	hits := 0
	for i := 0; i < rounds; i++ {
		ShuffleZone(cards, ZoneDrawDeck, rng)
		if cards[0].Position == 0 {
			hits++
		}
	}
	assert.InDelta(t, rounds/4, hits, rounds/10)
}
