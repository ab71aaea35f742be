package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

const doctorColumns = `doctor_id, doctor_name, user_id, password_hash, doctor_speciality, role, created_at, updated_at`

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	stampNew(&doctor.Timestamps)
	query := `
		INSERT INTO doctors (` + doctorColumns + `)
		VALUES (:doctor_id, :doctor_name, :user_id, :password_hash, :doctor_speciality, :role, :created_at, :updated_at)
	`
	if err := r.insertNamed(ctx, query, doctor); err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, doctorID string) (*model.Doctor, error) {
	return r.getBy(ctx, "doctor_id", doctorID)
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID string) (*model.Doctor, error) {
	return r.getBy(ctx, "user_id", userID)
}

func (r *doctorRepository) getBy(ctx context.Context, column, value string) (*model.Doctor, error) {
	var doctor model.Doctor
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE ` + column + ` = $1`
	if err := r.db.GetContext(ctx, &doctor, query, value); err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", mapError(err))
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	doctor.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE doctors SET
			doctor_name = :doctor_name, password_hash = :password_hash,
			doctor_speciality = :doctor_speciality, role = :role, updated_at = :updated_at
		WHERE doctor_id = :doctor_id
	`
	res, err := r.db.NamedExecContext(ctx, query, doctor)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", mapError(err))
	}
	if err := rowsAffected(res); err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, doctorID string) (*model.Doctor, error) {
	var doctor model.Doctor
	query := `DELETE FROM doctors WHERE doctor_id = $1 RETURNING ` + doctorColumns
	if err := r.db.GetContext(ctx, &doctor, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to delete doctor: %w", mapError(err))
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context, params model.ListParams) ([]*model.Doctor, int, error) {
	where := `WHERE ($1 = '' OR doctor_name ILIKE $2 OR doctor_id ILIKE $2 OR doctor_speciality ILIKE $2)`
	args := []interface{}{params.Search, likePattern(params.Search)}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM doctors `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count doctors: %w", err)
	}

	doctors := []*model.Doctor{}
	query := `SELECT ` + doctorColumns + ` FROM doctors ` + where +
		` ORDER BY created_at DESC, doctor_id LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &doctors, query, append(args, params.Limit, params.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, total, nil
}

func (r *doctorRepository) ListAll(ctx context.Context) ([]*model.Doctor, error) {
	doctors := []*model.Doctor{}
	query := `SELECT ` + doctorColumns + ` FROM doctors ORDER BY created_at, doctor_id`
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT doctor_id FROM doctors`); err != nil {
		return nil, fmt.Errorf("failed to load doctor ids: %w", err)
	}
	return ids, nil
}

func (r *doctorRepository) GetMany(ctx context.Context, doctorIDs []string) (map[string]*model.Doctor, error) {
	out := make(map[string]*model.Doctor, len(doctorIDs))
	if len(doctorIDs) == 0 {
		return out, nil
	}
	doctors := []*model.Doctor{}
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE doctor_id = ANY($1)`
	if err := r.db.SelectContext(ctx, &doctors, query, pq.Array(doctorIDs)); err != nil {
		return nil, fmt.Errorf("failed to load doctors: %w", err)
	}
	for _, d := range doctors {
		out[d.DoctorID] = d
	}
	return out, nil
}
