package lobby

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/featherfall/exploding-chickens/internal/apperrors"
	"github.com/featherfall/exploding-chickens/internal/game"
)

// Store persists lobby aggregates across restarts. Implementations live in
// the storage package; the interface sits on the consumer side so lobby code
// never imports a driver.
type Store interface {
	SaveLobby(ctx context.Context, l *Lobby) error
	LoadLobby(ctx context.Context, slug string) (*Lobby, error)
	DeleteLobby(ctx context.Context, slug string) error
	ListSlugs(ctx context.Context) ([]string, error)
}

// Manager owns every lobby of the process: creation, lookup, persistence
// and the idle sweep. Lock order is always map lock before lobby lock,
// never the reverse, so lobby operations cannot deadlock against lookups.
type Manager struct {
	store  Store
	stats  game.Reporter
	rng    *rand.Rand
	maxAge time.Duration

	mu      sync.RWMutex
	lobbies map[string]*Lobby
}

// NewManager creates a manager backed by the given store. A nil store keeps
// everything in memory only.
func NewManager(store Store, stats game.Reporter, maxAge time.Duration) *Manager {
	if stats == nil {
		stats = game.NoopReporter{}
	}
	if maxAge <= 0 {
		maxAge = 12 * time.Hour
	}
	return &Manager{
		store:   store,
		stats:   stats,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		maxAge:  maxAge,
		lobbies: make(map[string]*Lobby),
	}
}

// Restore rehydrates persisted lobbies into memory, typically at startup.
func (m *Manager) Restore(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	slugs, err := m.store.ListSlugs(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, slug := range slugs {
		l, err := m.store.LoadLobby(ctx, slug)
		if err != nil {
			log.Printf("⚠️ lobby %s could not be restored: %v", slug, err)
			continue
		}
		// Each lobby seeds its own rand source; rand.Rand is not safe for
		// concurrent use across lobby locks.
		l.Init(nil, m.stats)
		m.lobbies[slug] = l
	}
	log.Printf("🏠 %d lobbies restored", len(m.lobbies))
	return nil
}

// CreateLobby registers a new lobby. An empty slug gets a generated
// word-pair; explicit slugs must be link-safe and free.
func (m *Manager) CreateLobby(ctx context.Context, slug string) (*Lobby, *apperrors.GameError) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if slug == "" {
		slug = m.freeSlug()
	} else if !ValidSlug(slug) {
		return nil, apperrors.Validation("lobby slugs use lowercase words and dashes")
	}
	if _, taken := m.lobbies[slug]; taken {
		return nil, apperrors.Validation("that lobby name is taken")
	}

	l := NewLobby(slug, nil, m.stats)
	m.lobbies[slug] = l
	if err := m.persist(ctx, l); err != nil {
		delete(m.lobbies, slug)
		return nil, apperrors.Internal("the lobby could not be saved")
	}
	log.Printf("🏠 lobby %s created", slug)
	return l, nil
}

// GetLobby returns the lobby with the given slug.
func (m *Manager) GetLobby(slug string) (*Lobby, *apperrors.GameError) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.lobbies[slug]
	if !ok {
		return nil, apperrors.ErrLobbyNotFound
	}
	return l, nil
}

// FindGame locates a table by its slug across all lobbies. Table slugs are
// prefixed with their lobby's slug, so mismatches fail fast.
func (m *Manager) FindGame(slug string) (*Lobby, *game.Game, *apperrors.GameError) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.lobbies {
		if !strings.HasPrefix(slug, l.Slug+"-") {
			continue
		}
		if g := l.GameBySlug(slug); g != nil {
			return l, g, nil
		}
	}
	return nil, nil, apperrors.ErrGameNotFound
}

// CheckSlug reports whether a slug is valid and still free.
func (m *Manager) CheckSlug(slug string) (valid, free bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, taken := m.lobbies[slug]
	return ValidSlug(slug), !taken
}

// DeleteLobby drops a lobby from memory and storage.
func (m *Manager) DeleteLobby(ctx context.Context, slug string) *apperrors.GameError {
	m.mu.Lock()
	_, ok := m.lobbies[slug]
	delete(m.lobbies, slug)
	m.mu.Unlock()
	if !ok {
		return apperrors.ErrLobbyNotFound
	}
	if m.store != nil {
		if err := m.store.DeleteLobby(ctx, slug); err != nil {
			log.Printf("⚠️ lobby %s not removed from storage: %v", slug, err)
		}
	}
	log.Printf("🏠 lobby %s dissolved", slug)
	return nil
}

// Persist writes a lobby's current state through to storage. Mutating
// handlers call this before answering so an acknowledged action survives a
// restart; a failed save must refuse the action, never acknowledge it.
func (m *Manager) Persist(ctx context.Context, l *Lobby) error {
	return m.persist(ctx, l)
}

func (m *Manager) persist(ctx context.Context, l *Lobby) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.SaveLobby(ctx, l); err != nil {
		log.Printf("⚠️ lobby %s not persisted: %v", l.Slug, err)
		return err
	}
	return nil
}

// Count returns the number of registered lobbies.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lobbies)
}

// SweepLoop removes aged-out lobbies until the context ends.
func (m *Manager) SweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Sweep deletes idle lobbies older than the configured maximum age. The
// candidate list is snapshotted first; a lobby deleted concurrently is
// simply gone already.
func (m *Manager) Sweep(ctx context.Context) int {
	m.mu.RLock()
	candidates := make([]*Lobby, 0, len(m.lobbies))
	for _, l := range m.lobbies {
		candidates = append(candidates, l)
	}
	m.mu.RUnlock()

	swept := 0
	cutoff := time.Now().Add(-m.maxAge)
	for _, l := range candidates {
		if l.CreatedAt.After(cutoff) || l.InProgress() {
			continue
		}
		if err := m.DeleteLobby(ctx, l.Slug); err == nil {
			swept++
		}
	}
	if swept > 0 {
		log.Printf("🧹 %d idle lobbies swept", swept)
	}
	return swept
}

func (m *Manager) freeSlug() string {
	for {
		slug := NewSlug(m.rng)
		if _, taken := m.lobbies[slug]; !taken {
			return slug
		}
	}
}
