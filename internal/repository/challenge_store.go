package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appErr "github.com/imf-ops/gadget-api/pkg/errors"
)

// ErrChallengeNotFound is returned by Consume when no live challenge exists.
var ErrChallengeNotFound = errors.New("challenge not found")

// ChallengeStore keeps self-destruct challenges keyed by gadget id.
// Consume is read-and-delete so a challenge can be answered once.
type ChallengeStore interface {
	Save(ctx context.Context, gadgetID uuid.UUID, code string, ttl time.Duration) error
	Consume(ctx context.Context, gadgetID uuid.UUID) (string, error)
}

const challengeKeyPrefix = "gadget:challenge:"

type redisChallengeStore struct {
	rdb redis.UniversalClient
}

// NewRedisChallengeStore stores challenges as expiring Redis strings.
func NewRedisChallengeStore(rdb redis.UniversalClient) ChallengeStore {
	return &redisChallengeStore{rdb: rdb}
}

func (s *redisChallengeStore) Save(ctx context.Context, gadgetID uuid.UUID, code string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, challengeKeyPrefix+gadgetID.String(), code, ttl).Err(); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "save challenge failed")
	}
	return nil
}

func (s *redisChallengeStore) Consume(ctx context.Context, gadgetID uuid.UUID) (string, error) {
	code, err := s.rdb.GetDel(ctx, challengeKeyPrefix+gadgetID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrChallengeNotFound
	}
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "consume challenge failed")
	}
	return code, nil
}

type memoryChallenge struct {
	code      string
	expiresAt time.Time
}

type memoryChallengeStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]memoryChallenge
	now   func() time.Time
}

// NewMemoryChallengeStore keeps challenges in process memory. It only suits
// single-instance deployments.
func NewMemoryChallengeStore() ChallengeStore {
	return newMemoryChallengeStore(time.Now)
}

func newMemoryChallengeStore(now func() time.Time) *memoryChallengeStore {
	return &memoryChallengeStore{items: map[uuid.UUID]memoryChallenge{}, now: now}
}

func (s *memoryChallengeStore) Save(_ context.Context, gadgetID uuid.UUID, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// Drop expired entries while we hold the lock.
	for id, c := range s.items {
		if !now.Before(c.expiresAt) {
			delete(s.items, id)
		}
	}
	s.items[gadgetID] = memoryChallenge{code: code, expiresAt: now.Add(ttl)}
	return nil
}

func (s *memoryChallengeStore) Consume(_ context.Context, gadgetID uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.items[gadgetID]
	if !ok {
		return "", ErrChallengeNotFound
	}
	delete(s.items, gadgetID)
	if !s.now().Before(c.expiresAt) {
		return "", ErrChallengeNotFound
	}
	return c.code, nil
}
