package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featherfall/exploding-chickens/internal/lobby"
)

func testStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	l := lobby.NewLobby("plucky-walrus", nil, nil)
	p, aerr := l.AddPlayer("Player 0", "fox.png")
	require.Nil(t, aerr)
	_, aerr = l.AddPlayer("Player 1", "owl.png")
	require.Nil(t, aerr)
	require.Nil(t, l.StartGames())

	require.NoError(t, store.SaveLobby(ctx, l))

	got, err := store.LoadLobby(ctx, "plucky-walrus")
	require.NoError(t, err)
	got.Init(nil, nil)

	assert.Equal(t, l.ID, got.ID)
	require.Len(t, got.Players, 2)
	assert.NotNil(t, got.PlayerByID(p.ID))
	require.Len(t, got.Games, 1)

	// The restored table is playable where the old one left off.
	g := got.Games[0]
	cur := ""
	g.Locked(func() { cur = g.Players[0].ID })
	assert.NotEmpty(t, cur)
}

func TestLoadMissing(t *testing.T) {
	store, _ := testStore(t)
	_, err := store.LoadLobby(context.Background(), "nope")
	assert.Error(t, err)
}

func TestDeleteAndList(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	for _, slug := range []string{"one-otter", "two-otter"} {
		require.NoError(t, store.SaveLobby(ctx, lobby.NewLobby(slug, nil, nil)))
	}

	slugs, err := store.ListSlugs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one-otter", "two-otter"}, slugs)

	require.NoError(t, store.DeleteLobby(ctx, "one-otter"))
	slugs, err = store.ListSlugs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"two-otter"}, slugs)
}

func TestSaveSetsExpiration(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLobby(ctx, lobby.NewLobby("plucky-walrus", nil, nil)))
	ttl := mr.TTL("lobby:plucky-walrus")
	assert.Greater(t, ttl, time.Duration(0))

	mr.FastForward(2 * time.Hour)
	_, err := store.LoadLobby(ctx, "plucky-walrus")
	assert.Error(t, err, "expired lobbies are gone")
}
