package blockindex

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

var ErrHeightUnavailable = errors.New("ledger height unavailable")

// Source reads the host chain's current ledger height from the Redis key the
// platform indexer maintains, and implements the engine's time source. A
// local floor guarantees the reported index never decreases, even if the
// indexer briefly rewrites a lower value.
type Source struct {
	rdb *redis.Client
	key string

	mu    sync.Mutex
	floor uint64
}

func NewSource(rdb *redis.Client, key string) *Source {
	return &Source{rdb: rdb, key: key}
}

// CurrentIndex returns the latest observed ledger height.
func (s *Source) CurrentIndex(ctx context.Context) (uint64, error) {
	height, err := s.rdb.Get(ctx, s.key).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrHeightUnavailable
		}
		return 0, fmt.Errorf("failed to read ledger height: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if height < s.floor {
		return s.floor, nil
	}
	s.floor = height
	return height, nil
}
