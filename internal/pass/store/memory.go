package store

import (
	"context"
	"sync"

	"gopass/internal/pass/models"
	id "gopass/pkg/domain"
	"gopass/pkg/platform/sentinel"
)

// numShards spreads per-token locks across independent mutexes so concurrent
// scans of different tokens do not contend while scans of the same token
// serialize.
const numShards = 128

// InMemory keeps passes in maps guarded by a read-write lock, with a sharded
// mutex set providing the per-token critical section for Execute. It backs
// unit tests and single-node deployments without Postgres.
type InMemory struct {
	shards [numShards]sync.Mutex

	mu      sync.RWMutex
	byToken map[string]*models.Pass
	byID    map[id.PassID]*models.Pass
}

func NewInMemory() *InMemory {
	return &InMemory{
		byToken: make(map[string]*models.Pass),
		byID:    make(map[id.PassID]*models.Pass),
	}
}

func (s *InMemory) Create(_ context.Context, pass *models.Pass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byToken[pass.Token]; exists {
		return sentinel.ErrConflict
	}
	stored := *pass
	s.byToken[pass.Token] = &stored
	s.byID[pass.ID] = &stored
	return nil
}

func (s *InMemory) FindByID(_ context.Context, passID id.PassID) (*models.Pass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pass, ok := s.byID[passID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyPass(pass), nil
}

func (s *InMemory) FindByToken(_ context.Context, token string) (*models.Pass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pass, ok := s.byToken[token]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyPass(pass), nil
}

func (s *InMemory) Execute(ctx context.Context, token string,
	fn func(txCtx context.Context, pass *models.Pass) (bool, error)) (*models.Pass, error) {

	shard := &s.shards[hashToken(token)%numShards]
	shard.Lock()
	defer shard.Unlock()

	s.mu.RLock()
	stored, ok := s.byToken[token]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	// fn works on a copy; the shared record only changes when fn succeeds.
	working := copyPass(stored)
	mutate, err := fn(ctx, working)
	if err != nil {
		return nil, err
	}
	if mutate {
		s.mu.Lock()
		*stored = *working
		s.mu.Unlock()
	}
	return copyPass(working), nil
}

func (s *InMemory) CountByStatus(_ context.Context) (map[models.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[models.Status]int)
	for _, pass := range s.byID {
		counts[pass.Status]++
	}
	return counts, nil
}

func copyPass(p *models.Pass) *models.Pass {
	out := *p
	if p.Scan != nil {
		scan := *p.Scan
		out.Scan = &scan
	}
	return &out
}

// hashToken uses FNV-1a for shard distribution.
func hashToken(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
