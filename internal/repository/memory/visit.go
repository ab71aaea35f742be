package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jwalitptl/hospital-api/internal/mirror"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type visitRepository struct {
	store *mirror.Store
}

func NewVisitRepository(store *mirror.Store) repository.VisitRepository {
	return &visitRepository{store: store}
}

func (r *visitRepository) Create(ctx context.Context, visit *model.Visit) error {
	stampNew(&visit.Timestamps)
	return r.store.Apply(ctx, func(s mirror.State) (mirror.Action, error) {
		if !mirror.IsVisitIDUnique(s, visit.VisitID) {
			return nil, duplicate("visit", visit.VisitID)
		}
		return mirror.AddVisit{Visit: *visit}, nil
	})
}

func (r *visitRepository) InsertMany(ctx context.Context, visits []*model.Visit) (*repository.BatchResult, error) {
	return repository.InsertEach(len(visits),
		func(i int) string { return visits[i].VisitID },
		func(i int) error { return r.Create(ctx, visits[i]) },
	), nil
}

func (r *visitRepository) Get(_ context.Context, visitID string, scope repository.Scope) (*model.Visit, error) {
	v, ok := mirror.FindVisit(r.store.State(), visitID)
	if !ok || !inScope(scope, v.DoctorID) {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (r *visitRepository) Update(ctx context.Context, visit *model.Visit, scope repository.Scope) error {
	visit.UpdatedAt = time.Now().UTC()
	return r.store.Apply(ctx, func(s mirror.State) (mirror.Action, error) {
		current, ok := mirror.FindVisit(s, visit.VisitID)
		if !ok || !inScope(scope, current.DoctorID) {
			return nil, repository.ErrNotFound
		}
		return mirror.UpdateVisit{Visit: *visit}, nil
	})
}

func (r *visitRepository) Delete(ctx context.Context, visitID string, scope repository.Scope) (*model.Visit, error) {
	var deleted model.Visit
	err := r.store.Apply(ctx, func(s mirror.State) (mirror.Action, error) {
		v, ok := mirror.FindVisit(s, visitID)
		if !ok || !inScope(scope, v.DoctorID) {
			return nil, repository.ErrNotFound
		}
		deleted = v
		return mirror.DeleteVisit{VisitID: visitID}, nil
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

func (r *visitRepository) List(_ context.Context, params model.ListParams, scope repository.Scope) ([]*model.Visit, int, error) {
	var hits []model.Visit
	for _, v := range r.store.State().Visits {
		if inScope(scope, v.DoctorID) && matches(params.Search, v.VisitID, v.PatientID) {
			hits = append(hits, v)
		}
	}
	out, total := page(hits, params, func(a, b model.Visit) bool {
		return b.VisitDate.Before(a.VisitDate)
	})
	return out, total, nil
}

func (r *visitRepository) ListAll(_ context.Context) ([]*model.Visit, error) {
	return pointers(r.store.State().Visits), nil
}

func (r *visitRepository) ListByPatient(_ context.Context, patientID string, scope repository.Scope) ([]*model.Visit, error) {
	var visits []model.Visit
	for _, v := range r.store.State().Visits {
		if v.PatientID == patientID && inScope(scope, v.DoctorID) {
			visits = append(visits, v)
		}
	}
	sort.SliceStable(visits, func(i, j int) bool {
		return visits[i].VisitDate.Before(visits[j].VisitDate)
	})
	return pointers(visits), nil
}

func (r *visitRepository) IDs(_ context.Context) ([]string, error) {
	visits := r.store.State().Visits
	ids := make([]string, 0, len(visits))
	for _, v := range visits {
		ids = append(ids, v.VisitID)
	}
	return ids, nil
}

func (r *visitRepository) Refs(_ context.Context) (map[string]model.VisitRef, error) {
	visits := r.store.State().Visits
	refs := make(map[string]model.VisitRef, len(visits))
	for _, v := range visits {
		refs[v.VisitID] = model.VisitRef{PatientID: v.PatientID, DoctorID: v.DoctorID}
	}
	return refs, nil
}
