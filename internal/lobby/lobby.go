package lobby

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/featherfall/exploding-chickens/internal/apperrors"
	"github.com/featherfall/exploding-chickens/internal/game"
	"github.com/featherfall/exploding-chickens/internal/game/card"
)

// GroupingMethod decides how the roster is partitioned into tables.
type GroupingMethod string

const (
	GroupingRandom GroupingMethod = "random" // 随机分组
	GroupingWins   GroupingMethod = "wins"   // 按胜场分组
)

// Settings are the host-tunable knobs of a lobby.
type Settings struct {
	Grouping    GroupingMethod `json:"grouping"`
	RoomSize    int            `json:"room_size"`
	PlayTimeout time.Duration  `json:"play_timeout"`
	IncludeHost bool           `json:"include_host"`
}

// DefaultSettings mirror a casual party: random tables of up to five,
// host plays too, no play clock.
func DefaultSettings() Settings {
	return Settings{
		Grouping:    GroupingRandom,
		RoomSize:    5,
		PlayTimeout: 0,
		IncludeHost: true,
	}
}

// Lobby is the aggregate above the tables: the player roster, the grouping
// settings, the expansion packs in force and the set of running games. The
// roster is authoritative for identity and win counts; games borrow players
// for the duration of a hand.
type Lobby struct {
	ID            string         `json:"id"`
	Slug          string         `json:"slug"`
	Settings      Settings       `json:"settings"`
	Players       []*game.Player `json:"players"`
	Games         []*game.Game   `json:"games"`
	ImportedPacks []card.Pack    `json:"imported_packs,omitempty"`
	Events        []game.Event   `json:"events"`
	CreatedAt     time.Time      `json:"created_at"`

	mu    sync.Mutex
	rng   *rand.Rand
	stats game.Reporter
}

// NewLobby creates an empty lobby ready to receive players.
func NewLobby(slug string, rng *rand.Rand, stats game.Reporter) *Lobby {
	l := &Lobby{
		ID:        uuid.New().String(),
		Slug:      slug,
		Settings:  DefaultSettings(),
		CreatedAt: time.Now(),
	}
	l.Init(rng, stats)
	return l
}

// Init attaches runtime collaborators after construction or rehydration
// from storage. Required before any operation.
func (l *Lobby) Init(rng *rand.Rand, stats game.Reporter) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if stats == nil {
		stats = game.NoopReporter{}
	}
	l.rng = rng
	l.stats = stats
	for _, g := range l.Games {
		g.Init(rand.New(rand.NewSource(l.rng.Int63())), l.stats)
	}
}

// Locked runs fn under the lobby's writer lock, for snapshot projections.
func (l *Lobby) Locked(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}

func (l *Lobby) appendEvent(playerID, action, detail string) {
	l.Events = append(l.Events, game.Event{
		Seq:      len(l.Events),
		At:       time.Now(),
		PlayerID: playerID,
		Action:   action,
		Detail:   detail,
	})
}

func (l *Lobby) playerByID(id string) *game.Player {
	for _, p := range l.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByID returns the roster entry with the given id, or nil.
func (l *Lobby) PlayerByID(id string) *game.Player {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.playerByID(id)
}

func (l *Lobby) host() *game.Player {
	for _, p := range l.Players {
		if p.Role == game.RoleHost {
			return p
		}
	}
	return nil
}

// IsHost reports whether the player holds the host role.
func (l *Lobby) IsHost(playerID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.playerByID(playerID)
	return p != nil && p.Role == game.RoleHost
}

// GameOf returns the table a player is currently seated at, or nil when the
// player only sits in the roster.
func (l *Lobby) GameOf(playerID string) *game.Game {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gameOf(playerID)
}

func (l *Lobby) gameOf(playerID string) *game.Game {
	for _, g := range l.Games {
		if g.PlayerByID(playerID) != nil {
			return g
		}
	}
	return nil
}

// GameBySlug finds a table by its slug.
func (l *Lobby) GameBySlug(slug string) *game.Game {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, g := range l.Games {
		if g.Slug == slug {
			return g
		}
	}
	return nil
}

// InProgress reports whether any table is mid-hand.
func (l *Lobby) InProgress() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inProgress()
}

func (l *Lobby) inProgress() bool {
	for _, g := range l.Games {
		running := false
		g.Locked(func() { running = g.Status == game.StatusInGame })
		if running {
			return true
		}
	}
	return false
}

// AddPlayer appends a validated player to the roster. The first player in
// becomes the host.
func (l *Lobby) AddPlayer(nickname, avatar string) (*game.Player, *apperrors.GameError) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ValidateNickname(nickname); err != nil {
		return nil, err
	}
	if err := ValidateAvatar(avatar); err != nil {
		return nil, err
	}
	for _, p := range l.Players {
		if p.Nickname == nickname {
			return nil, apperrors.ErrPlayerName
		}
	}

	role := game.RolePlayer
	if len(l.Players) == 0 {
		role = game.RoleHost
	}
	p := &game.Player{
		ID:       uuid.New().String(),
		Nickname: nickname,
		Avatar:   avatar,
		Role:     role,
		Status:   game.StatusAlive,
	}
	l.Players = append(l.Players, p)
	l.appendEvent(p.ID, "create-player", nickname)
	return p, nil
}

// KickPlayer removes a player from the roster and any table. Only the host
// may kick, and never themselves.
func (l *Lobby) KickPlayer(actorID, targetID string) *apperrors.GameError {
	l.mu.Lock()
	defer l.mu.Unlock()

	actor := l.playerByID(actorID)
	if actor == nil {
		return apperrors.ErrPlayerNotFound
	}
	if actor.Role != game.RoleHost {
		return apperrors.ErrNotHost
	}
	if actorID == targetID {
		return apperrors.Validation("the host cannot kick themselves")
	}
	target := l.playerByID(targetID)
	if target == nil {
		return apperrors.ErrPlayerNotFound
	}

	kept := l.Players[:0]
	for _, p := range l.Players {
		if p.ID != targetID {
			kept = append(kept, p)
		}
	}
	l.Players = kept
	if g := l.gameOf(targetID); g != nil {
		g.RemovePlayer(targetID)
	}
	l.appendEvent(actorID, "kick-player", target.Nickname)
	return nil
}

// MakeHost transfers the host role. Only the current host may do so.
func (l *Lobby) MakeHost(actorID, targetID string) *apperrors.GameError {
	l.mu.Lock()
	defer l.mu.Unlock()

	actor := l.playerByID(actorID)
	if actor == nil {
		return apperrors.ErrPlayerNotFound
	}
	if actor.Role != game.RoleHost {
		return apperrors.ErrNotHost
	}
	target := l.playerByID(targetID)
	if target == nil {
		return apperrors.ErrPlayerNotFound
	}

	actor.Role = game.RolePlayer
	target.Role = game.RoleHost
	l.appendEvent(actorID, "make-host", target.Nickname)
	return nil
}

// UpdateSettings replaces the lobby settings. Refused while any hand runs.
func (l *Lobby) UpdateSettings(actorID string, s Settings) *apperrors.GameError {
	l.mu.Lock()
	defer l.mu.Unlock()

	actor := l.playerByID(actorID)
	if actor == nil {
		return apperrors.ErrPlayerNotFound
	}
	if actor.Role != game.RoleHost {
		return apperrors.ErrNotHost
	}
	if l.inProgress() {
		return apperrors.ErrGameInProgress
	}
	if s.RoomSize < 2 {
		return apperrors.Validation("tables need at least two seats")
	}
	if s.Grouping != GroupingRandom && s.Grouping != GroupingWins {
		return apperrors.Validation("unknown grouping method")
	}
	l.Settings = s
	l.appendEvent(actorID, "update-settings", string(s.Grouping))
	return nil
}

// StartGames partitions the roster into fresh tables per the grouping
// settings and deals every table. Tables are rebuilt each round so win-based
// grouping can reseat players as counts move.
func (l *Lobby) StartGames() *apperrors.GameError {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.inProgress() {
		return apperrors.ErrGameInProgress
	}

	eligible := make([]*game.Player, 0, len(l.Players))
	for _, p := range l.Players {
		if p.Role == game.RoleHost && !l.Settings.IncludeHost {
			continue
		}
		eligible = append(eligible, p)
	}
	if len(eligible) < 2 {
		return apperrors.Validation("at least two players are needed")
	}

	switch l.Settings.Grouping {
	case GroupingWins:
		// Stable sort keeps join order among equal records.
		sortPlayersByWins(eligible)
	default:
		l.rng.Shuffle(len(eligible), func(i, j int) {
			eligible[i], eligible[j] = eligible[j], eligible[i]
		})
	}

	l.Games = l.Games[:0]
	usedSuffix := make(map[string]bool)
	for _, members := range partition(eligible, l.Settings.RoomSize) {
		suffix := newTableSuffix(l.rng)
		for usedSuffix[suffix] {
			suffix = newTableSuffix(l.rng)
		}
		usedSuffix[suffix] = true
		// Tables run under their own locks, so each gets its own rand
		// source, derived from the lobby's for reproducible deals.
		g := game.NewGame(l.Slug+"-"+suffix, rand.New(rand.NewSource(l.rng.Int63())), l.stats)
		g.ImportedPacks = append([]card.Pack(nil), l.ImportedPacks...)
		for _, p := range members {
			g.AddPlayer(p)
		}
		if err := g.DealHands(); err != nil {
			return err
		}
		l.Games = append(l.Games, g)
	}
	l.appendEvent("", "start-games", "")
	return nil
}

// ResetGames aborts every running hand and returns the tables to the lobby.
func (l *Lobby) ResetGames() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, g := range l.Games {
		g.Reset()
	}
	l.appendEvent("", "reset-games", "")
}

// ImportPack records an expansion for future deals and pushes it into any
// idle tables.
func (l *Lobby) ImportPack(actorID string, p card.Pack) *apperrors.GameError {
	l.mu.Lock()
	defer l.mu.Unlock()

	actor := l.playerByID(actorID)
	if actor == nil {
		return apperrors.ErrPlayerNotFound
	}
	if actor.Role != game.RoleHost {
		return apperrors.ErrNotHost
	}
	if !card.KnownPack(p) || p == card.PackBase {
		return apperrors.ErrInvalidTarget
	}
	for _, imported := range l.ImportedPacks {
		if imported == p {
			return apperrors.ErrPackImported
		}
	}
	// All tables must be between hands before any of them takes the pack;
	// a refusal must leave every table untouched.
	if l.inProgress() {
		return apperrors.ErrGameInProgress
	}
	for _, g := range l.Games {
		if err := g.ImportPack(p); err != nil {
			return err
		}
	}
	l.ImportedPacks = append(l.ImportedPacks, p)
	l.appendEvent(actorID, "import-pack", string(p))
	return nil
}

// ExportPack removes an expansion from the lobby and all idle tables.
func (l *Lobby) ExportPack(actorID string, p card.Pack) *apperrors.GameError {
	l.mu.Lock()
	defer l.mu.Unlock()

	actor := l.playerByID(actorID)
	if actor == nil {
		return apperrors.ErrPlayerNotFound
	}
	if actor.Role != game.RoleHost {
		return apperrors.ErrNotHost
	}
	idx := -1
	for i, imported := range l.ImportedPacks {
		if imported == p {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.ErrPackNotImported
	}
	// Same as the import: refuse before anything shifts, commit the pack
	// list only after every table dropped its cards.
	if l.inProgress() {
		return apperrors.ErrGameInProgress
	}
	for _, g := range l.Games {
		if err := g.ExportPack(p); err != nil {
			return err
		}
	}
	l.ImportedPacks = append(l.ImportedPacks[:idx], l.ImportedPacks[idx+1:]...)
	l.appendEvent(actorID, "export-pack", string(p))
	return nil
}

// partition chunks players into groups no larger than size, as evenly as
// possible, never producing a group of one.
func partition(players []*game.Player, size int) [][]*game.Player {
	if size < 2 {
		size = 2
	}
	n := len(players)
	groups := (n + size - 1) / size
	// Never a table of one: an overfull table beats a lonely one.
	if groups > n/2 {
		groups = n / 2
	}
	if groups == 0 {
		return nil
	}
	base := n / groups
	extra := n % groups
	out := make([][]*game.Player, 0, groups)
	idx := 0
	for i := 0; i < groups; i++ {
		sz := base
		if i < extra {
			sz++
		}
		out = append(out, players[idx:idx+sz])
		idx += sz
	}
	return out
}

func sortPlayersByWins(players []*game.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Wins > players[j].Wins
	})
}
