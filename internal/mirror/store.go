package mirror

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwalitptl/hospital-api/pkg/logger"
)

// Persister loads and saves the persisted collections of a State.
type Persister interface {
	// Load returns found=false when nothing was saved yet.
	Load(ctx context.Context) (state State, found bool, err error)
	Save(ctx context.Context, state State) error
}

// Store serialises actions against one State and saves after every change to
// the persisted collections.
type Store struct {
	mu        sync.RWMutex
	state     State
	persister Persister
	logger    *logger.Logger
}

// NewStore starts from initial, then replaces it with whatever p has saved.
// A nil p keeps the state in memory only.
func NewStore(ctx context.Context, initial State, p Persister, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{state: initial, persister: p, logger: log}
	if p == nil {
		return s, nil
	}

	saved, found, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load mirror state: %w", err)
	}
	if found {
		s.state = Reduce(s.state, Load{State: saved})
		log.Info("mirror state loaded",
			"patients", len(saved.Patients),
			"doctors", len(saved.Doctors),
			"visits", len(saved.Visits),
			"prescriptions", len(saved.Prescriptions),
		)
	}
	return s, nil
}

// State returns the current snapshot. Callers must not modify its slices.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies a and persists the result when collections changed.
func (s *Store) Dispatch(ctx context.Context, a Action) error {
	return s.Apply(ctx, func(State) (Action, error) { return a, nil })
}

// Apply derives an action from the current state and applies it atomically.
// When decide returns an error nothing changes.
func (s *Store) Apply(ctx context.Context, decide func(State) (Action, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := decide(s.state)
	if err != nil {
		return err
	}
	next := Reduce(s.state, a)

	if s.persister != nil && collectionChange(a) {
		if err := s.persister.Save(ctx, next); err != nil {
			s.logger.Error(err, "failed to save mirror state")
			return fmt.Errorf("failed to save mirror state: %w", err)
		}
	}
	s.state = next
	return nil
}

// Save writes the current state regardless of changes.
func (s *Store) Save(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	return s.persister.Save(ctx, s.State())
}
