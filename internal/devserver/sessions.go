package devserver

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned for expired, destroyed, or fabricated
// session IDs.
var ErrSessionNotFound = errors.New("devserver: session not found")

const sessionKeyPrefix = "devserver:session:"

// SessionStore maps opaque session IDs to user IDs in Redis. Every hit
// refreshes the TTL, so sessions expire on idleness rather than on a
// fixed schedule.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionStore wraps an existing Redis client.
func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// Create opens a session for the given user and returns its ID.
func (s *SessionStore) Create(ctx context.Context, userID int64) (string, error) {
	sid := uuid.NewString()
	key := sessionKeyPrefix + sid
	if err := s.rdb.Set(ctx, key, strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return "", err
	}
	return sid, nil
}

// Lookup resolves a session ID to its user ID and refreshes the TTL.
func (s *SessionStore) Lookup(ctx context.Context, sid string) (int64, error) {
	key := sessionKeyPrefix + sid
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrSessionNotFound
	}
	_ = s.rdb.Expire(ctx, key, s.ttl).Err()
	return userID, nil
}

// Destroy removes a session. Destroying an unknown session is not an
// error.
func (s *SessionStore) Destroy(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+sid).Err()
}
