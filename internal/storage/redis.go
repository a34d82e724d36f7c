// Package storage persists lobby state in Redis so a server restart does
// not dissolve every table.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/featherfall/exploding-chickens/internal/lobby"
)

const (
	lobbyKeyPrefix = "lobby:"

	defaultExpiration = 12 * time.Hour
)

// RedisStore implements lobby.Store on a Redis client. Each lobby is one
// JSON value under lobby:<slug>; the TTL matches the manager's sweep age so
// Redis forgets what the sweep would have removed anyway.
type RedisStore struct {
	client     *redis.Client
	expiration time.Duration
}

// NewRedisStore wraps an already-connected client. A zero expiration uses
// the default.
func NewRedisStore(client *redis.Client, expiration time.Duration) *RedisStore {
	if expiration <= 0 {
		expiration = defaultExpiration
	}
	return &RedisStore{client: client, expiration: expiration}
}

// Ping verifies the connection, typically at startup.
func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

// SaveLobby writes the whole aggregate as one JSON value. The lobby lock is
// held during marshaling so the snapshot is consistent.
func (rs *RedisStore) SaveLobby(ctx context.Context, l *lobby.Lobby) error {
	var (
		data []byte
		err  error
	)
	l.Locked(func() {
		data, err = json.Marshal(l)
	})
	if err != nil {
		return fmt.Errorf("marshal lobby %s: %w", l.Slug, err)
	}
	return rs.client.Set(ctx, lobbyKeyPrefix+l.Slug, data, rs.expiration).Err()
}

// LoadLobby rehydrates one lobby. The caller must Init it before use.
func (rs *RedisStore) LoadLobby(ctx context.Context, slug string) (*lobby.Lobby, error) {
	data, err := rs.client.Get(ctx, lobbyKeyPrefix+slug).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("lobby %s not stored", slug)
		}
		return nil, err
	}

	var l lobby.Lobby
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("unmarshal lobby %s: %w", slug, err)
	}
	return &l, nil
}

// DeleteLobby removes a lobby's value.
func (rs *RedisStore) DeleteLobby(ctx context.Context, slug string) error {
	return rs.client.Del(ctx, lobbyKeyPrefix+slug).Err()
}

// ListSlugs returns the slugs of every stored lobby.
func (rs *RedisStore) ListSlugs(ctx context.Context) ([]string, error) {
	var (
		slugs  []string
		cursor uint64
	)
	for {
		keys, next, err := rs.client.Scan(ctx, cursor, lobbyKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			slugs = append(slugs, key[len(lobbyKeyPrefix):])
		}
		if next == 0 {
			return slugs, nil
		}
		cursor = next
	}
}
