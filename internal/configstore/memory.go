package configstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/eleven-am/call-backend/internal/shared"
	"github.com/eleven-am/call-backend/internal/telephony"
)

// MemoryStore is the single-process store, suitable for development and
// tests.
type MemoryStore struct {
	mu      sync.RWMutex
	configs map[string]telephony.CallConfig
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		configs: make(map[string]telephony.CallConfig),
	}
}

func (s *MemoryStore) Save(ctx context.Context, callSid string, cfg telephony.CallConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[callSid] = cfg
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, callSid string) (telephony.CallConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[callSid]
	if !ok {
		return telephony.CallConfig{}, fmt.Errorf("%w: call config %s", shared.ErrNotFound, callSid)
	}
	return cfg, nil
}

func (s *MemoryStore) Delete(ctx context.Context, callSid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.configs, callSid)
	return nil
}
