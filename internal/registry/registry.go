// Package registry answers "does this business identifier already exist" for
// one ingestion batch, from a snapshot read once before validation starts.
package registry

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

// Set is a set of business identifiers.
type Set map[string]struct{}

func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Add(id string) {
	s[id] = struct{}{}
}

// Snapshot holds the existence sets one entity kind needs. Sets the kind does
// not need are empty, never nil.
type Snapshot struct {
	Patients      Set
	Doctors       Set
	Visits        Set
	Prescriptions Set
	// VisitRefs maps visit_id to the patient and doctor it links.
	VisitRefs map[string]model.VisitRef
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		Patients:      Set{},
		Doctors:       Set{},
		Visits:        Set{},
		Prescriptions: Set{},
		VisitRefs:     map[string]model.VisitRef{},
	}
}

type Registry struct {
	repos *repository.Repositories
}

func New(repos *repository.Repositories) *Registry {
	return &Registry{repos: repos}
}

// Snapshot reads the sets kind validates against.
func (r *Registry) Snapshot(ctx context.Context, kind model.EntityKind) (*Snapshot, error) {
	snap := emptySnapshot()
	var err error

	switch kind {
	case model.EntityPatients:
		snap.Patients, err = load(ctx, r.repos.Patients.IDs)
	case model.EntityDoctors:
		snap.Doctors, err = load(ctx, r.repos.Doctors.IDs)
	case model.EntityVisits:
		if snap.Patients, err = load(ctx, r.repos.Patients.IDs); err != nil {
			break
		}
		if snap.Doctors, err = load(ctx, r.repos.Doctors.IDs); err != nil {
			break
		}
		snap.Visits, err = load(ctx, r.repos.Visits.IDs)
	case model.EntityPrescriptions:
		if snap.Patients, err = load(ctx, r.repos.Patients.IDs); err != nil {
			break
		}
		if snap.Prescriptions, err = load(ctx, r.repos.Prescriptions.IDs); err != nil {
			break
		}
		snap.VisitRefs, err = r.repos.Visits.Refs(ctx)
		if err == nil {
			for id := range snap.VisitRefs {
				snap.Visits.Add(id)
			}
		}
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot %s identifiers: %w", kind, err)
	}
	return snap, nil
}

func load(ctx context.Context, ids func(context.Context) ([]string, error)) (Set, error) {
	list, err := ids(ctx)
	if err != nil {
		return nil, err
	}
	return NewSet(list...), nil
}
