package memory

import (
	"context"
	"time"

	"github.com/jwalitptl/hospital-api/internal/mirror"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type prescriptionRepository struct {
	store *mirror.Store
}

func NewPrescriptionRepository(store *mirror.Store) repository.PrescriptionRepository {
	return &prescriptionRepository{store: store}
}

func (r *prescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	stampNew(&p.Timestamps)
	return r.store.Apply(ctx, func(s mirror.State) (mirror.Action, error) {
		if _, taken := mirror.FindPrescription(s, p.PrescriptionID); taken {
			return nil, duplicate("prescription", p.PrescriptionID)
		}
		return mirror.AddPrescription{Prescription: *p}, nil
	})
}

func (r *prescriptionRepository) InsertMany(ctx context.Context, ps []*model.Prescription) (*repository.BatchResult, error) {
	return repository.InsertEach(len(ps),
		func(i int) string { return ps[i].PrescriptionID },
		func(i int) error { return r.Create(ctx, ps[i]) },
	), nil
}

func (r *prescriptionRepository) Get(_ context.Context, prescriptionID string, scope repository.Scope) (*model.Prescription, error) {
	p, ok := mirror.FindPrescription(r.store.State(), prescriptionID)
	if !ok || !inScope(scope, p.DoctorID) {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *prescriptionRepository) Update(ctx context.Context, p *model.Prescription, scope repository.Scope) error {
	p.UpdatedAt = time.Now().UTC()
	return r.store.Apply(ctx, func(s mirror.State) (mirror.Action, error) {
		current, ok := mirror.FindPrescription(s, p.PrescriptionID)
		if !ok || !inScope(scope, current.DoctorID) {
			return nil, repository.ErrNotFound
		}
		return mirror.UpdatePrescription{Prescription: *p}, nil
	})
}

func (r *prescriptionRepository) Delete(ctx context.Context, prescriptionID string, scope repository.Scope) (*model.Prescription, error) {
	var deleted model.Prescription
	err := r.store.Apply(ctx, func(s mirror.State) (mirror.Action, error) {
		p, ok := mirror.FindPrescription(s, prescriptionID)
		if !ok || !inScope(scope, p.DoctorID) {
			return nil, repository.ErrNotFound
		}
		deleted = p
		return mirror.DeletePrescription{PrescriptionID: prescriptionID}, nil
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

func (r *prescriptionRepository) List(_ context.Context, params model.ListParams, scope repository.Scope) ([]*model.Prescription, int, error) {
	var hits []model.Prescription
	for _, p := range r.store.State().Prescriptions {
		if inScope(scope, p.DoctorID) && matches(params.Search, p.PrescriptionID, p.DrugName, p.PatientID) {
			hits = append(hits, p)
		}
	}
	out, total := page(hits, params, func(a, b model.Prescription) bool {
		return b.PrescribedDate.Before(a.PrescribedDate)
	})
	return out, total, nil
}

func (r *prescriptionRepository) ListAll(_ context.Context) ([]*model.Prescription, error) {
	return pointers(r.store.State().Prescriptions), nil
}

func (r *prescriptionRepository) IDs(_ context.Context) ([]string, error) {
	ps := r.store.State().Prescriptions
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.PrescriptionID)
	}
	return ids, nil
}
