// Package memory implements the repository interfaces on top of the state
// mirror. It backs tests and the "memory" database driver.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jwalitptl/hospital-api/internal/mirror"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

// NewRepositories wires every store onto one mirror.
func NewRepositories(store *mirror.Store) *repository.Repositories {
	return &repository.Repositories{
		Patients:      NewPatientRepository(store),
		Doctors:       NewDoctorRepository(store),
		Visits:        NewVisitRepository(store),
		Prescriptions: NewPrescriptionRepository(store),
		Health:        pinger{},
	}
}

// NewStore returns an unpersisted mirror store, convenient for tests.
func NewStore() *mirror.Store {
	s, _ := mirror.NewStore(context.Background(), mirror.State{}, nil, nil)
	return s
}

type pinger struct{}

func (pinger) Ping(ctx context.Context) error {
	return ctx.Err()
}

func stampNew(ts *model.Timestamps) {
	now := time.Now().UTC()
	ts.CreatedAt = now
	ts.UpdatedAt = now
}

func duplicate(kind, id string) error {
	return fmt.Errorf("%w: %s %s", repository.ErrDuplicate, kind, id)
}

// matches reports whether any field contains search, ignoring case.
func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func inScope(scope repository.Scope, doctorID string) bool {
	return scope.Unscoped() || scope.DoctorID == doctorID
}

// page sorts items with less, then cuts one page and returns pointers to copies.
func page[T any](items []T, params model.ListParams, less func(a, b T) bool) ([]*T, int) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })

	total := len(items)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	out := make([]*T, 0, end-start)
	for i := start; i < end; i++ {
		item := items[i]
		out = append(out, &item)
	}
	return out, total
}

func pointers[T any](items []T) []*T {
	out := make([]*T, 0, len(items))
	for i := range items {
		item := items[i]
		out = append(out, &item)
	}
	return out
}

// newestFirst orders by creation time descending; later inserts win ties.
func newestFirst(a, b model.Timestamps) bool {
	return a.CreatedAt.After(b.CreatedAt)
}

func reversed[T any](items []T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[len(items)-1-i] = it
	}
	return out
}
