package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/featherfall/exploding-chickens/internal/game/card"
)

// Status 对局状态
type Status string

const (
	StatusInLobby Status = "in_lobby"
	StatusInGame  Status = "in_game"
)

// Reporter receives statistics increments. Injected at construction so game
// code never touches ambient global state.
type Reporter interface {
	Increment(metric string)
}

// NoopReporter discards all metrics.
type NoopReporter struct{}

func (NoopReporter) Increment(string) {}

// Event is one entry of the append-only per-game log.
type Event struct {
	Seq      int       `json:"seq"`
	At       time.Time `json:"at"`
	PlayerID string    `json:"player_id,omitempty"`
	Action   string    `json:"action"`
	Detail   string    `json:"detail,omitempty"`
}

// Game is the authoritative per-table aggregate: players, the full card
// collection, the turn pointer and the event log. All mutating operations
// are serialized through one mutex; two concurrent plays against the same
// game never interleave. Cross-game operations are independent.
type Game struct {
	ID             string        `json:"id"`
	Slug           string        `json:"slug"`
	Status         Status        `json:"status"`
	Players        []*Player     `json:"players"`
	Cards          []*card.Card  `json:"cards"`
	Seat           int           `json:"seat"`
	Direction      Direction     `json:"direction"`
	TurnsRemaining int           `json:"turns_remaining"`
	ImportedPacks  []card.Pack   `json:"imported_packs,omitempty"`
	Events         []Event       `json:"events"`
	CreatedAt      time.Time     `json:"created_at"`

	mu    sync.Mutex
	rng   *rand.Rand
	stats Reporter
}

// NewGame creates an empty game ready to receive players.
func NewGame(slug string, rng *rand.Rand, stats Reporter) *Game {
	g := &Game{
		ID:             uuid.New().String(),
		Slug:           slug,
		Status:         StatusInLobby,
		Direction:      Forward,
		TurnsRemaining: 1,
		CreatedAt:      time.Now(),
	}
	g.Init(rng, stats)
	return g
}

// Init attaches runtime collaborators after construction or rehydration
// from storage. Required before any operation.
func (g *Game) Init(rng *rand.Rand, stats Reporter) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if stats == nil {
		stats = NoopReporter{}
	}
	g.rng = rng
	g.stats = stats
}

// Locked runs fn under the game's writer lock. Used by callers that need a
// consistent read (snapshot projection) outside the controller operations.
func (g *Game) Locked(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn()
}

// AddPlayer seats a player at the next free seat.
func (g *Game) AddPlayer(p *Player) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p.Seat = len(g.Players)
	g.Players = append(g.Players, p)
}

// RemovePlayer unseats a player. Mid-hand the removal is an elimination
// first: the hand leaves play, one chicken retires with it so circulation
// stays at alive−1, and the turn moves on if it was theirs. Only then is
// the seat freed and the rest renumbered.
func (g *Game) RemovePlayer(playerID string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil {
		return nil
	}

	if g.Status == StatusInGame && p.IsAlive() {
		wasTheirs := p.Seat == g.Seat
		p.Status = StatusDead
		p.Exploding = false

		hand := card.InZone(g.Cards, card.Hand(p.ID))
		base := card.CountInZone(g.Cards, card.ZoneOutOfPlay)
		heldChicken := false
		for i, hc := range hand {
			if hc.Kind.IsChicken() {
				heldChicken = true
			}
			hc.Zone = card.ZoneOutOfPlay
			hc.Position = base + i
		}
		if !heldChicken {
			g.retireChicken()
		}

		g.appendEvent(p.ID, "remove-player", p.Nickname)
		if g.checkWin() == nil && wasTheirs {
			g.forceAdvance()
		}
	} else {
		g.appendEvent(p.ID, "remove-player", p.Nickname)
	}

	g.unseat(p)
	return p
}

// retireChicken pulls one chicken off the draw pile out of circulation.
func (g *Game) retireChicken() {
	if c := g.takeKind(card.ZoneDrawDeck, card.KindChicken); c != nil {
		c.Position = card.CountInZone(g.Cards, card.ZoneOutOfPlay)
		c.Zone = card.ZoneOutOfPlay
		card.Compact(g.Cards, card.ZoneDrawDeck)
	}
}

// unseat drops the player and renumbers the rest to stay a permutation of
// [0..N), keeping the turn pointer on whoever held it. Callers hold the lock.
func (g *Game) unseat(target *Player) {
	holder := g.playerBySeat(g.Seat)
	kept := g.Players[:0]
	for _, p := range g.Players {
		if p.ID == target.ID {
			continue
		}
		kept = append(kept, p)
	}
	g.Players = kept
	for i, p := range g.Players {
		p.Seat = i
	}
	switch {
	case holder != nil && holder.ID != target.ID:
		g.Seat = holder.Seat
	case g.Seat >= len(g.Players):
		g.Seat = 0
	}
}

func (g *Game) playerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByID returns the seated player with the given id, or nil.
func (g *Game) PlayerByID(id string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playerByID(id)
}

func (g *Game) playerBySeat(seat int) *Player {
	for _, p := range g.Players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

func (g *Game) alivePlayers() []*Player {
	alive := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if p.IsAlive() {
			alive = append(alive, p)
		}
	}
	return alive
}

// appendEvent records an entry in the append-only log. Callers hold the lock.
func (g *Game) appendEvent(playerID, action, detail string) {
	g.Events = append(g.Events, Event{
		Seq:      len(g.Events),
		At:       time.Now(),
		PlayerID: playerID,
		Action:   action,
		Detail:   detail,
	})
}

// advanceTurn consumes one turn repetition: while the current seat owes more
// turns the pointer stays, otherwise it moves to the next living seat.
func (g *Game) advanceTurn() {
	if g.TurnsRemaining > 1 {
		g.TurnsRemaining--
		return
	}
	next, err := NextSeat(g.Seat, g.Direction, g.Players)
	if err != nil {
		// One player left; the win check ends the game.
		return
	}
	g.Seat = next
	g.TurnsRemaining = 1
}

// forceAdvance hands the turn to the next living seat unconditionally,
// discarding any owed repetitions. Used when the current player explodes
// or passes the chicken on.
func (g *Game) forceAdvance() {
	if next, err := NextSeat(g.Seat, g.Direction, g.Players); err == nil {
		g.Seat = next
	}
	g.TurnsRemaining = 1
}

// checkWin assigns the winner when one living player remains, bumps the win
// counters and resets the table for replay. Callers hold the lock.
func (g *Game) checkWin() *Player {
	alive := g.alivePlayers()
	if len(alive) != 1 || g.Status != StatusInGame {
		return nil
	}

	w := alive[0]
	w.Status = StatusWinner
	w.Wins++
	g.stats.Increment("wins:" + w.ID)
	g.appendEvent(w.ID, "win", fmt.Sprintf("%s wins after %d events", w.Nickname, len(g.Events)))
	g.resetLocked()
	return w
}

// Reset returns every card to the draw deck, clears exploding and dead
// flags, re-seeds the turn pointer and moves the game back to the lobby.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked()
}

func (g *Game) resetLocked() {
	for i, c := range g.Cards {
		c.Zone = card.ZoneDrawDeck
		c.Position = i
		c.PlacedBy = ""
	}
	for _, p := range g.Players {
		p.Exploding = false
		if p.Status == StatusDead {
			p.Status = StatusAlive
		}
	}
	g.Seat = 0
	g.Direction = Forward
	g.TurnsRemaining = 1
	g.Status = StatusInLobby
	g.appendEvent("", "reset", "")
}

// ChickensInPlay counts chicken cards still in circulation. The
// conservation invariant keeps this equal to alive players minus one
// while a hand is running.
func (g *Game) ChickensInPlay() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.Cards {
		if c.Kind.IsChicken() && c.Zone != card.ZoneOutOfPlay {
			n++
		}
	}
	return n
}
