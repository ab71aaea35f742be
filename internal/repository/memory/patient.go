package memory

import (
	"context"
	"time"

	"github.com/jwalitptl/hospital-api/internal/mirror"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type patientRepository struct {
	store *mirror.Store
}

func NewPatientRepository(store *mirror.Store) repository.PatientRepository {
	return &patientRepository{store: store}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	stampNew(&patient.Timestamps)
	return r.store.Apply(ctx, func(s mirror.State) (mirror.Action, error) {
		if !mirror.IsPatientIDUnique(s, patient.PatientID) {
			return nil, duplicate("patient", patient.PatientID)
		}
		return mirror.AddPatient{Patient: *patient}, nil
	})
}

func (r *patientRepository) InsertMany(ctx context.Context, patients []*model.Patient) (*repository.BatchResult, error) {
	return repository.InsertEach(len(patients),
		func(i int) string { return patients[i].PatientID },
		func(i int) error { return r.Create(ctx, patients[i]) },
	), nil
}

func (r *patientRepository) Get(_ context.Context, patientID string) (*model.Patient, error) {
	p, ok := mirror.FindPatient(r.store.State(), patientID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	patient.UpdatedAt = time.Now().UTC()
	return r.store.Apply(ctx, func(s mirror.State) (mirror.Action, error) {
		if _, ok := mirror.FindPatient(s, patient.PatientID); !ok {
			return nil, repository.ErrNotFound
		}
		return mirror.UpdatePatient{Patient: *patient}, nil
	})
}

func (r *patientRepository) Delete(ctx context.Context, patientID string) (*model.Patient, error) {
	var deleted model.Patient
	err := r.store.Apply(ctx, func(s mirror.State) (mirror.Action, error) {
		p, ok := mirror.FindPatient(s, patientID)
		if !ok {
			return nil, repository.ErrNotFound
		}
		deleted = p
		return mirror.DeletePatient{PatientID: patientID}, nil
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

func (r *patientRepository) List(_ context.Context, params model.ListParams) ([]*model.Patient, int, error) {
	var hits []model.Patient
	for _, p := range reversed(r.store.State().Patients) {
		if matches(params.Search, p.FullName, p.PatientID, p.Email) {
			hits = append(hits, p)
		}
	}
	out, total := page(hits, params, func(a, b model.Patient) bool {
		return newestFirst(a.Timestamps, b.Timestamps)
	})
	return out, total, nil
}

func (r *patientRepository) ListAll(_ context.Context) ([]*model.Patient, error) {
	return pointers(r.store.State().Patients), nil
}

func (r *patientRepository) IDs(_ context.Context) ([]string, error) {
	patients := r.store.State().Patients
	ids := make([]string, 0, len(patients))
	for _, p := range patients {
		ids = append(ids, p.PatientID)
	}
	return ids, nil
}

func (r *patientRepository) Names(_ context.Context, patientIDs []string) (map[string]string, error) {
	want := make(map[string]struct{}, len(patientIDs))
	for _, id := range patientIDs {
		want[id] = struct{}{}
	}
	names := make(map[string]string, len(patientIDs))
	for _, p := range r.store.State().Patients {
		if _, ok := want[p.PatientID]; ok {
			names[p.PatientID] = p.FullName
		}
	}
	return names, nil
}
