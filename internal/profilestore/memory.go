package profilestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"mentor-matching/internal/matching"
	"mentor-matching/internal/models"
)

// MemoryStore keeps profiles in insertion order. It backs the preview CLI
// and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	order    []string
	profiles map[string]*models.Profile
}

func NewMemoryStore(profiles ...*models.Profile) *MemoryStore {
	s := &MemoryStore{profiles: make(map[string]*models.Profile)}
	for _, p := range profiles {
		s.Put(p)
	}
	return s
}

// LoadJSON decodes a JSON array of profiles into a new store.
func LoadJSON(r io.Reader) (*MemoryStore, error) {
	var profiles []*models.Profile
	if err := json.NewDecoder(r).Decode(&profiles); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	seen := make(map[string]struct{}, len(profiles))
	for i, p := range profiles {
		if p == nil || p.ID == "" {
			return nil, fmt.Errorf("profile at index %d has no id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate profile id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return NewMemoryStore(profiles...), nil
}

// Put inserts or replaces a profile. Replacing keeps the original position.
func (s *MemoryStore) Put(p *models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.profiles[p.ID] = p
}

func (s *MemoryStore) GetProfile(_ context.Context, id string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", matching.ErrProfileNotFound, id)
	}
	return p, nil
}

func (s *MemoryStore) ListByRole(_ context.Context, role models.Role) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Profile
	for _, id := range s.order {
		if p := s.profiles[id]; hasRole(p, role) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListIDs(ctx context.Context, role models.Role) ([]string, error) {
	profiles, _ := s.ListByRole(ctx, role)
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	return ids, nil
}

// hasRole matches on the role flag alone; profiles with both flags set are
// listed and left for the ranker to reject.
func hasRole(p *models.Profile, role models.Role) bool {
	if role == models.RoleMentor {
		return p.IsMentor
	}
	return p.IsMentee
}
