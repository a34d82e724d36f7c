package game

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featherfall/exploding-chickens/internal/game/card"
)

func dealtGame(t *testing.T, players int, seed int64) *Game {
	t.Helper()
	g := NewGame("table", rand.New(rand.NewSource(seed)), NoopReporter{})
	for i := 0; i < players; i++ {
		g.Players = append(g.Players, &Player{
			ID:       fmt.Sprintf("p%d", i),
			Nickname: fmt.Sprintf("player-%d", i),
			Seat:     i,
			Role:     RolePlayer,
			Status:   StatusAlive,
		})
	}
	require.Nil(t, g.DealHands())
	return g
}

func TestDealHands_Invariants(t *testing.T) {
	g := dealtGame(t, 4, 21)

	assert.Equal(t, StatusInGame, g.Status)
	assert.Equal(t, 0, g.Seat)
	assert.Equal(t, Forward, g.Direction)
	assert.Equal(t, 1, g.TurnsRemaining)

	// Seats are a permutation of [0..N).
	seats := make(map[int]bool)
	for _, p := range g.Players {
		seats[p.Seat] = true
	}
	for i := 0; i < 4; i++ {
		assert.True(t, seats[i])
	}

	// Each player: one defuse plus four fillers, no chicken dealt.
	for _, p := range g.Players {
		h := card.InZone(g.Cards, card.Hand(p.ID))
		require.Len(t, h, 1+fillerCardsPerPlayer)
		assert.Equal(t, 1, countKindIn(h, card.KindDefuse), "exactly the guaranteed defuse for %s", p.ID)
		assert.Zero(t, countKindIn(h, card.KindChicken))
	}

	// players−1 chickens in the pile, surplus out of play.
	assert.Equal(t, 3, card.CountKind(g.Cards, card.ZoneDrawDeck, card.KindChicken))
	assert.Equal(t, 2, card.CountKind(g.Cards, card.ZoneOutOfPlay, card.KindChicken))
	assert.Equal(t, 3, g.ChickensInPlay())
	assertAllZonesCompact(t, g)
}

func TestDealHands_TooFewPlayers(t *testing.T) {
	g := NewGame("table", rand.New(rand.NewSource(1)), NoopReporter{})
	g.Players = append(g.Players, &Player{ID: "p0", Status: StatusAlive})
	assert.NotNil(t, g.DealHands())
}

func TestDealHands_RefusedMidGame(t *testing.T) {
	g := dealtGame(t, 3, 5)
	assert.NotNil(t, g.DealHands())
}

func TestCardConservation_AcrossPlays(t *testing.T) {
	g := dealtGame(t, 4, 9)
	total := len(g.Cards)

	// A handful of draws and plays must never change the multiset size.
	for i := 0; i < 10; i++ {
		cur := g.playerBySeat(g.Seat)
		if cur.Exploding {
			resolveExploding(t, g, cur)
		} else {
			g.DrawCard(cur.ID, DrawTop)
		}
		assert.Len(t, g.Cards, total)
		assertAllZonesCompact(t, g)
	}
}

func TestImportExportPack(t *testing.T) {
	g := NewGame("table", rand.New(rand.NewSource(3)), NoopReporter{})
	for i := 0; i < 3; i++ {
		g.Players = append(g.Players, &Player{ID: fmt.Sprintf("p%d", i), Seat: i, Status: StatusAlive})
	}

	require.Nil(t, g.ImportPack(card.PackYolkingAround))
	assert.NotNil(t, g.ImportPack(card.PackYolkingAround), "double import is refused")
	require.Nil(t, g.DealHands())
	base := len(g.Cards)
	assert.Positive(t, base)

	expansion := 0
	for _, c := range g.Cards {
		if c.Pack == card.PackYolkingAround {
			expansion++
		}
	}
	assert.Positive(t, expansion)

	// Export is refused mid-game, accepted after reset.
	assert.NotNil(t, g.ExportPack(card.PackYolkingAround))
	g.Reset()
	require.Nil(t, g.ExportPack(card.PackYolkingAround))
	assert.Len(t, g.Cards, base-expansion)
	for _, c := range g.Cards {
		assert.NotEqual(t, card.PackYolkingAround, c.Pack)
	}
	assert.NotNil(t, g.ExportPack(card.PackYolkingAround))
	assertAllZonesCompact(t, g)
}

func TestRemovePlayer_MidHandTurnMovesOn(t *testing.T) {
	g := dealtGame(t, 3, 31)
	g.Seat = 1
	victim := g.playerBySeat(1)
	total := len(g.Cards)

	require.NotNil(t, g.RemovePlayer(victim.ID))
	assert.Nil(t, g.PlayerByID(victim.ID))
	assert.Len(t, g.Players, 2)

	// The hand left play with a chicken retired alongside it; nothing lost.
	assert.Len(t, g.Cards, total)
	assert.Zero(t, card.CountInZone(g.Cards, card.Hand(victim.ID)))
	assert.Equal(t, 1, g.ChickensInPlay(), "circulation stays at alive minus one")

	// The turn landed on a living seat and play continues.
	cur := g.playerBySeat(g.Seat)
	require.NotNil(t, cur)
	out := g.DrawCard(cur.ID, DrawTop)
	require.NotEqual(t, OutcomeError, out.Kind, "turn stranded after removal: %v", out.Err)
	assertAllZonesCompact(t, g)
}

func TestRemovePlayer_MidHandKeepsTurnHolder(t *testing.T) {
	g := dealtGame(t, 3, 37)
	g.Seat = 2
	holder := g.playerBySeat(2)

	// Removing an earlier seat renumbers; the pointer must follow the holder.
	require.NotNil(t, g.RemovePlayer("p0"))
	assert.Equal(t, holder.Seat, g.Seat)
	out := g.DrawCard(holder.ID, DrawTop)
	assert.NotEqual(t, OutcomeError, out.Kind)
}

func TestRemovePlayer_LastOpponentWins(t *testing.T) {
	g := dealtGame(t, 2, 41)
	require.NotNil(t, g.RemovePlayer("p1"))

	assert.Equal(t, StatusInLobby, g.Status, "the table resets once one player remains")
	assert.Equal(t, 1, g.Players[0].Wins)
	assert.Equal(t, StatusWinner, g.Players[0].Status)
}

func TestReset_ClearsTable(t *testing.T) {
	g := dealtGame(t, 3, 11)
	g.Players[1].Status = StatusDead
	g.Players[2].Exploding = true
	g.Direction = Backward
	g.Seat = 2

	g.Reset()

	assert.Equal(t, StatusInLobby, g.Status)
	assert.Equal(t, 0, g.Seat)
	assert.Equal(t, Forward, g.Direction)
	assert.Equal(t, 1, g.TurnsRemaining)
	for _, p := range g.Players {
		assert.True(t, p.IsAlive())
		assert.False(t, p.Exploding)
	}
	for i, c := range g.Cards {
		assert.Equal(t, card.ZoneDrawDeck, c.Zone)
		assert.Equal(t, i, c.Position)
		assert.Empty(t, c.PlacedBy)
	}
}

type recordingReporter struct{ metrics []string }

func (r *recordingReporter) Increment(metric string) { r.metrics = append(r.metrics, metric) }

func TestWin_ReportsStats(t *testing.T) {
	rep := &recordingReporter{}
	g := NewGame("table", rand.New(rand.NewSource(2)), rep)
	for i := 0; i < 2; i++ {
		g.Players = append(g.Players, &Player{ID: fmt.Sprintf("p%d", i), Seat: i, Status: StatusAlive})
	}
	g.Status = StatusInGame
	chicken := place(g, card.KindChicken, hand("p0"))
	g.Players[0].Exploding = true

	out := g.PlayCard("p0", chicken.ID, Target{})
	require.Equal(t, "p1", out.WinnerID)
	assert.Contains(t, rep.metrics, "wins:p1")
}

// TestSimulation_RandomPlayTerminates runs full games of random legal play
// and asserts each one ends with exactly one living player within a bound
// proportional to players and deck size.
func TestSimulation_RandomPlayTerminates(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		g := dealtGame(t, 4, 100+seed)
		bound := len(g.Cards) * len(g.Players) * 20

		var winner string
		for i := 0; i < bound && winner == ""; i++ {
			cur := g.playerBySeat(g.Seat)
			require.NotNil(t, cur)

			var out Outcome
			if cur.Exploding {
				out = resolveExploding(t, g, cur)
			} else {
				out = g.DrawCard(cur.ID, DrawTop)
			}
			require.NotEqual(t, OutcomeError, out.Kind, "legal play rejected: %v", out.Err)
			winner = out.WinnerID
		}

		require.NotEmpty(t, winner, "seed %d did not terminate", seed)
		assert.Equal(t, StatusInLobby, g.Status)
	}
}

// resolveExploding plays a defuse with a random legal offset when held,
// otherwise concedes with the chicken.
func resolveExploding(t *testing.T, g *Game, p *Player) Outcome {
	t.Helper()
	h := card.InZone(g.Cards, card.Hand(p.ID))
	for _, c := range h {
		if c.Kind == card.KindDefuse {
			offset := g.rng.Intn(card.CountInZone(g.Cards, card.ZoneDrawDeck) + 1)
			return g.PlayCard(p.ID, c.ID, Target{Position: &offset})
		}
	}
	for _, c := range h {
		if c.Kind.IsChicken() {
			return g.PlayCard(p.ID, c.ID, Target{})
		}
	}
	t.Fatalf("exploding player %s holds no chicken", p.ID)
	return Outcome{}
}

func countKindIn(cards []*card.Card, k card.Kind) int {
	n := 0
	for _, c := range cards {
		if c.Kind == k {
			n++
		}
	}
	return n
}

func assertAllZonesCompact(t *testing.T, g *Game) {
	t.Helper()
	zones := map[card.Zone]bool{
		card.ZoneDrawDeck:  true,
		card.ZoneDiscard:   true,
		card.ZoneOutOfPlay: true,
	}
	for _, p := range g.Players {
		zones[card.Hand(p.ID)] = true
	}
	for z := range zones {
		for i, c := range card.InZone(g.Cards, z) {
			assert.Equal(t, i, c.Position, "zone %s not compact", z)
		}
	}
}
