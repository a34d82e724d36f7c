// Package stats keeps gameplay counters in Redis: raw counters per metric
// plus a win leaderboard sorted set.
package stats

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	counterKeyPrefix = "stats:"
	leaderboardKey   = "leaderboard:wins"

	winsMetricPrefix = "wins:"
)

// Entry is one row of the win leaderboard.
type Entry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Wins     int    `json:"wins"`
}

// RedisReporter implements game.Reporter. Increments are queued and written
// by a background worker; game engines call Increment while holding their
// locks, so the hot path must never wait on the network.
type RedisReporter struct {
	client *redis.Client
	queue  chan string
	done   chan struct{}
}

// NewRedisReporter starts the write worker on an already-connected client.
func NewRedisReporter(client *redis.Client) *RedisReporter {
	r := &RedisReporter{
		client: client,
		queue:  make(chan string, 256),
		done:   make(chan struct{}),
	}
	go r.worker()
	return r
}

// Increment queues a counter bump. Full queue drops the increment; counters
// are advisory, gameplay is not.
func (r *RedisReporter) Increment(metric string) {
	select {
	case r.queue <- metric:
	default:
		log.Printf("⚠️ stats queue full, dropped %s", metric)
	}
}

// Close drains the queue and stops the worker.
func (r *RedisReporter) Close() {
	close(r.queue)
	<-r.done
}

func (r *RedisReporter) worker() {
	defer close(r.done)
	ctx := context.Background()
	for metric := range r.queue {
		if err := r.client.Incr(ctx, counterKeyPrefix+metric).Err(); err != nil {
			log.Printf("⚠️ stats incr %s: %v", metric, err)
			continue
		}
		if playerID, ok := strings.CutPrefix(metric, winsMetricPrefix); ok {
			if err := r.client.ZIncrBy(ctx, leaderboardKey, 1, playerID).Err(); err != nil {
				log.Printf("⚠️ leaderboard update %s: %v", playerID, err)
			}
		}
	}
}

// Get reads one raw counter. Missing counters read as zero.
func (r *RedisReporter) Get(ctx context.Context, metric string) (int64, error) {
	n, err := r.client.Get(ctx, counterKeyPrefix+metric).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// TopWinners returns the leaderboard from most to fewest wins.
func (r *RedisReporter) TopWinners(ctx context.Context, limit int) ([]Entry, error) {
	results, err := r.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(results))
	for i, z := range results {
		id, _ := z.Member.(string)
		entries = append(entries, Entry{
			Rank:     i + 1,
			PlayerID: id,
			Wins:     int(z.Score),
		})
	}
	return entries, nil
}
