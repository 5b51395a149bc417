package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/worker-directory/internal/view"
)

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps sessions in Redis so several console instances can share them.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore builds a store on top of an existing client.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

func (s *RedisStore) Get(ctx context.Context, id string) (view.Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return view.Snapshot{}, ErrNotFound
	}
	if err != nil {
		s.logger.Error("failed to get session", zap.String("session_id", id), zap.Error(err))
		return view.Snapshot{}, fmt.Errorf("get session: %w", err)
	}
	return decodeSnapshot(data)
}

func (s *RedisStore) Put(ctx context.Context, id string, snap view.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, snapshotKey(id), data, s.ttl).Err(); err != nil {
		s.logger.Error("failed to put session", zap.String("session_id", id), zap.Error(err))
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

func (s *RedisStore) Lock(ctx context.Context, id string) (func(), error) {
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, lockKey(id), token, LockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("lock session: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, s.client, []string{lockKey(id)}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			s.logger.Warn("failed to release session lock", zap.String("session_id", id), zap.Error(err))
		}
	}, nil
}

func encodeSnapshot(snap view.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (view.Snapshot, error) {
	var snap view.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return view.Snapshot{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return snap, nil
}
