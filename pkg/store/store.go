// Package store provides persistence for generated plans.
//
// The HTTP server keeps every plan it generates so clients can fetch them
// again by ID. Two backends are provided:
//   - memory: in-process map for development and tests
//   - mongo: MongoDB-backed storage for shared deployments
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/skysim/skyplan/pkg/errors"
	"github.com/skysim/skyplan/pkg/plan"
)

// Store is the interface for plan storage backends.
type Store interface {
	// Put stores a plan, overwriting any plan with the same ID.
	Put(ctx context.Context, p plan.Plan) error

	// Get retrieves a plan by ID. Returns a NOT_FOUND error if absent.
	Get(ctx context.Context, id string) (plan.Plan, error)

	// List returns stored plans, newest first, up to limit (0 = no limit).
	List(ctx context.Context, limit int) ([]plan.Plan, error)

	// Delete removes a plan. Deleting a missing plan is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	plans map[string]plan.Plan
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{plans: make(map[string]plan.Plan)}
}

// Put stores a plan.
func (s *MemoryStore) Put(ctx context.Context, p plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[p.ID] = p
	return nil
}

// Get retrieves a plan by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plans[id]
	if !ok {
		return plan.Plan{}, errors.New(errors.ErrCodeNotFound, "plan %s not found", id)
	}
	return p, nil
}

// List returns stored plans, newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]plan.Plan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a plan.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plans, id)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
