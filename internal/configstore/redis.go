package configstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/eleven-am/call-backend/internal/shared"
	"github.com/eleven-am/call-backend/internal/telephony"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "callcfg:"
	// Call configs are ephemeral; expire them well past any plausible
	// call duration so abandoned calls do not leak keys.
	defaultTTL = 4 * time.Hour
)

// RedisStore shares call configs across processes, for deployments where
// the dialer and the webhook server are separate instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    defaultTTL,
	}
}

func (s *RedisStore) key(callSid string) string {
	return redisKeyPrefix + callSid
}

func (s *RedisStore) Save(ctx context.Context, callSid string, cfg telephony.CallConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal call config: %w", err)
	}
	if err := s.client.Set(ctx, s.key(callSid), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save call config: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, callSid string) (telephony.CallConfig, error) {
	data, err := s.client.Get(ctx, s.key(callSid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return telephony.CallConfig{}, fmt.Errorf("%w: call config %s", shared.ErrNotFound, callSid)
	}
	if err != nil {
		return telephony.CallConfig{}, fmt.Errorf("get call config: %w", err)
	}

	var cfg telephony.CallConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return telephony.CallConfig{}, fmt.Errorf("unmarshal call config: %w", err)
	}
	return cfg, nil
}

func (s *RedisStore) Delete(ctx context.Context, callSid string) error {
	if err := s.client.Del(ctx, s.key(callSid)).Err(); err != nil {
		return fmt.Errorf("delete call config: %w", err)
	}
	return nil
}
