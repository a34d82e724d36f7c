package stats

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReporter(t *testing.T) *RedisReporter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisReporter(client)
}

func TestIncrementAndGet(t *testing.T) {
	r := testReporter(t)
	ctx := context.Background()

	r.Increment("draws")
	r.Increment("draws")
	r.Increment("plays")
	r.Close()

	n, err := r.Get(ctx, "draws")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = r.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWinsFeedLeaderboard(t *testing.T) {
	r := testReporter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		r.Increment("wins:alice")
	}
	r.Increment("wins:bob")
	r.Close()

	top, err := r.TopWinners(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, Entry{Rank: 1, PlayerID: "alice", Wins: 3}, top[0])
	assert.Equal(t, Entry{Rank: 2, PlayerID: "bob", Wins: 1}, top[1])
}

func TestIncrementNeverBlocks(t *testing.T) {
	r := testReporter(t)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10_000; i++ {
			r.Increment("burst")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Increment blocked under load")
	}
	r.Close()
}
