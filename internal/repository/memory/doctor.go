package memory

import (
	"context"
	"time"

	"github.com/jwalitptl/hospital-api/internal/mirror"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type doctorRepository struct {
	store *mirror.Store
}

func NewDoctorRepository(store *mirror.Store) repository.DoctorRepository {
	return &doctorRepository{store: store}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	stampNew(&doctor.Timestamps)
	return r.store.Apply(ctx, func(s mirror.State) (mirror.Action, error) {
		if _, taken := mirror.FindDoctor(s, doctor.DoctorID); taken {
			return nil, duplicate("doctor", doctor.DoctorID)
		}
		if !mirror.IsDoctorUserIDUnique(s, doctor.UserID) {
			return nil, duplicate("user", doctor.UserID)
		}
		return mirror.AddDoctor{Doctor: *doctor}, nil
	})
}

func (r *doctorRepository) Get(_ context.Context, doctorID string) (*model.Doctor, error) {
	d, ok := mirror.FindDoctor(r.store.State(), doctorID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r *doctorRepository) GetByUserID(_ context.Context, userID string) (*model.Doctor, error) {
	for _, d := range r.store.State().Doctors {
		if d.UserID == userID {
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	doctor.UpdatedAt = time.Now().UTC()
	return r.store.Apply(ctx, func(s mirror.State) (mirror.Action, error) {
		if _, ok := mirror.FindDoctor(s, doctor.DoctorID); !ok {
			return nil, repository.ErrNotFound
		}
		return mirror.UpdateDoctor{Doctor: *doctor}, nil
	})
}

func (r *doctorRepository) Delete(ctx context.Context, doctorID string) (*model.Doctor, error) {
	var deleted model.Doctor
	err := r.store.Apply(ctx, func(s mirror.State) (mirror.Action, error) {
		d, ok := mirror.FindDoctor(s, doctorID)
		if !ok {
			return nil, repository.ErrNotFound
		}
		deleted = d
		return mirror.DeleteDoctor{DoctorID: doctorID}, nil
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

func (r *doctorRepository) List(_ context.Context, params model.ListParams) ([]*model.Doctor, int, error) {
	var hits []model.Doctor
	for _, d := range reversed(r.store.State().Doctors) {
		if matches(params.Search, d.DoctorName, d.DoctorID, d.DoctorSpeciality) {
			hits = append(hits, d)
		}
	}
	out, total := page(hits, params, func(a, b model.Doctor) bool {
		return newestFirst(a.Timestamps, b.Timestamps)
	})
	return out, total, nil
}

func (r *doctorRepository) ListAll(_ context.Context) ([]*model.Doctor, error) {
	return pointers(r.store.State().Doctors), nil
}

func (r *doctorRepository) IDs(_ context.Context) ([]string, error) {
	doctors := r.store.State().Doctors
	ids := make([]string, 0, len(doctors))
	for _, d := range doctors {
		ids = append(ids, d.DoctorID)
	}
	return ids, nil
}

func (r *doctorRepository) GetMany(_ context.Context, doctorIDs []string) (map[string]*model.Doctor, error) {
	want := make(map[string]struct{}, len(doctorIDs))
	for _, id := range doctorIDs {
		want[id] = struct{}{}
	}
	out := make(map[string]*model.Doctor, len(doctorIDs))
	for _, d := range r.store.State().Doctors {
		if _, ok := want[d.DoctorID]; ok {
			d := d
			out[d.DoctorID] = &d
		}
	}
	return out, nil
}
