package protocol

import (
	"time"

	"github.com/featherfall/exploding-chickens/internal/game"
	"github.com/featherfall/exploding-chickens/internal/game/card"
	"github.com/featherfall/exploding-chickens/internal/lobby"
)

// CardView exposes one card to a client. Zone and position are included so
// hands and discard history render in order; draw pile cards are never sent.
type CardView struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Pack     string `json:"pack"`
	Position int    `json:"position"`
}

// PlayerView is the public slice of a player: hand size but never hand
// contents.
type PlayerView struct {
	ID          string `json:"id"`
	Nickname    string `json:"nickname"`
	Avatar      string `json:"avatar"`
	Seat        int    `json:"seat"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	Exploding   bool   `json:"exploding"`
	Connections int    `json:"connections"`
	Wins        int    `json:"wins"`
	HandSize    int    `json:"hand_size"`
}

// GameView is the table snapshot every seated client receives. The hand
// field is filled per recipient by the gateway.
type GameView struct {
	Slug           string       `json:"slug"`
	Status         string       `json:"status"`
	Seat           int          `json:"seat"`
	Direction      int          `json:"direction"`
	TurnsRemaining int          `json:"turns_remaining"`
	DrawCount      int          `json:"draw_count"`
	DiscardTop     *CardView    `json:"discard_top,omitempty"`
	Players        []PlayerView `json:"players"`
	Hand           []CardView   `json:"hand,omitempty"`
	Events         []game.Event `json:"events,omitempty"`
}

// GameSummary is the lobby-level line about one table.
type GameSummary struct {
	Slug      string   `json:"slug"`
	Status    string   `json:"status"`
	PlayerIDs []string `json:"player_ids"`
}

// LobbyView is the lobby snapshot every connected client receives.
type LobbyView struct {
	Slug          string        `json:"slug"`
	Settings      SettingsView  `json:"settings"`
	Players       []PlayerView  `json:"players"`
	Games         []GameSummary `json:"games"`
	ImportedPacks []string      `json:"imported_packs,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// SettingsView mirrors lobby.Settings on the wire.
type SettingsView struct {
	Grouping           string `json:"grouping"`
	RoomSize           int    `json:"room_size"`
	PlayTimeoutSeconds int    `json:"play_timeout_seconds"`
	IncludeHost        bool   `json:"include_host"`
}

// NewCardView projects one card.
func NewCardView(c *card.Card) CardView {
	return CardView{
		ID:       c.ID,
		Kind:     string(c.Kind),
		Pack:     string(c.Pack),
		Position: c.Position,
	}
}

func newPlayerView(p *game.Player, handSize int) PlayerView {
	return PlayerView{
		ID:          p.ID,
		Nickname:    p.Nickname,
		Avatar:      p.Avatar,
		Seat:        p.Seat,
		Role:        string(p.Role),
		Status:      string(p.Status),
		Exploding:   p.Exploding,
		Connections: p.Connections,
		Wins:        p.Wins,
		HandSize:    handSize,
	}
}

// ProjectLobby snapshots a lobby under its lock.
func ProjectLobby(l *lobby.Lobby) LobbyView {
	var view LobbyView
	l.Locked(func() {
		view = LobbyView{
			Slug: l.Slug,
			Settings: SettingsView{
				Grouping:           string(l.Settings.Grouping),
				RoomSize:           l.Settings.RoomSize,
				PlayTimeoutSeconds: int(l.Settings.PlayTimeout / time.Second),
				IncludeHost:        l.Settings.IncludeHost,
			},
			Players:   make([]PlayerView, 0, len(l.Players)),
			Games:     make([]GameSummary, 0, len(l.Games)),
			CreatedAt: l.CreatedAt,
		}
		for _, p := range l.Players {
			view.Players = append(view.Players, newPlayerView(p, 0))
		}
		for _, g := range l.Games {
			summary := GameSummary{Slug: g.Slug}
			g.Locked(func() {
				summary.Status = string(g.Status)
				for _, p := range g.Players {
					summary.PlayerIDs = append(summary.PlayerIDs, p.ID)
				}
			})
			view.Games = append(view.Games, summary)
		}
		for _, p := range l.ImportedPacks {
			view.ImportedPacks = append(view.ImportedPacks, string(p))
		}
	})
	return view
}

// ProjectGame snapshots a table under its lock. forPlayerID selects whose
// hand rides along; empty omits hands entirely (spectators).
func ProjectGame(g *game.Game, forPlayerID string) GameView {
	var view GameView
	g.Locked(func() {
		view = GameView{
			Slug:           g.Slug,
			Status:         string(g.Status),
			Seat:           g.Seat,
			Direction:      int(g.Direction),
			TurnsRemaining: g.TurnsRemaining,
			DrawCount:      card.CountInZone(g.Cards, card.ZoneDrawDeck),
			Players:        make([]PlayerView, 0, len(g.Players)),
		}

		discard := card.InZone(g.Cards, card.ZoneDiscard)
		if len(discard) > 0 {
			top := NewCardView(discard[len(discard)-1])
			view.DiscardTop = &top
		}

		for _, p := range g.Players {
			view.Players = append(view.Players, newPlayerView(p, card.CountInZone(g.Cards, card.Hand(p.ID))))
		}

		if forPlayerID != "" {
			for _, c := range card.InZone(g.Cards, card.Hand(forPlayerID)) {
				view.Hand = append(view.Hand, NewCardView(c))
			}
		}

		// Recent history only; the full log stays server-side.
		if n := len(g.Events); n > 0 {
			start := n - 10
			if start < 0 {
				start = 0
			}
			view.Events = append(view.Events, g.Events[start:]...)
		}
	})
	return view
}
