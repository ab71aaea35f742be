package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

const prescriptionColumns = `prescription_id, visit_id, patient_id, doctor_id, diagnosis_id,
	diagnosis_description, drug_name, drug_category, dosage, quantity, days_supply,
	prescribed_date, cost, created_at, updated_at`

type prescriptionRepository struct {
	BaseRepository
}

func NewPrescriptionRepository(db *sqlx.DB) repository.PrescriptionRepository {
	return &prescriptionRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *prescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	stampNew(&p.Timestamps)
	query := `
		INSERT INTO prescriptions (` + prescriptionColumns + `)
		VALUES (:prescription_id, :visit_id, :patient_id, :doctor_id, :diagnosis_id,
			:diagnosis_description, :drug_name, :drug_category, :dosage, :quantity, :days_supply,
			:prescribed_date, :cost, :created_at, :updated_at)
	`
	if err := r.insertNamed(ctx, query, p); err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) InsertMany(ctx context.Context, ps []*model.Prescription) (*repository.BatchResult, error) {
	return repository.InsertEach(len(ps),
		func(i int) string { return ps[i].PrescriptionID },
		func(i int) error { return r.Create(ctx, ps[i]) },
	), nil
}

func (r *prescriptionRepository) Get(ctx context.Context, prescriptionID string, scope repository.Scope) (*model.Prescription, error) {
	var p model.Prescription
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE prescription_id = $1 AND ` + scopeClause(2)
	if err := r.db.GetContext(ctx, &p, query, prescriptionID, scope.DoctorID); err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", mapError(err))
	}
	return &p, nil
}

func (r *prescriptionRepository) Update(ctx context.Context, p *model.Prescription, scope repository.Scope) error {
	p.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE prescriptions SET
			diagnosis_id = $2, diagnosis_description = $3, drug_name = $4, drug_category = $5,
			dosage = $6, quantity = $7, days_supply = $8, prescribed_date = $9, cost = $10,
			updated_at = $11
		WHERE prescription_id = $1 AND ($12 = '' OR doctor_id = $12)
	`
	res, err := r.db.ExecContext(ctx, query,
		p.PrescriptionID, p.DiagnosisID, p.DiagnosisDescription, p.DrugName, p.DrugCategory,
		p.Dosage, p.Quantity, p.DaysSupply, p.PrescribedDate, p.Cost, p.UpdatedAt, scope.DoctorID,
	)
	if err != nil {
		return fmt.Errorf("failed to update prescription: %w", mapError(err))
	}
	if err := rowsAffected(res); err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Delete(ctx context.Context, prescriptionID string, scope repository.Scope) (*model.Prescription, error) {
	var p model.Prescription
	query := `DELETE FROM prescriptions WHERE prescription_id = $1 AND ` + scopeClause(2) + ` RETURNING ` + prescriptionColumns
	if err := r.db.GetContext(ctx, &p, query, prescriptionID, scope.DoctorID); err != nil {
		return nil, fmt.Errorf("failed to delete prescription: %w", mapError(err))
	}
	return &p, nil
}

func (r *prescriptionRepository) List(ctx context.Context, params model.ListParams, scope repository.Scope) ([]*model.Prescription, int, error) {
	where := `WHERE ` + scopeClause(1) +
		` AND ($2 = '' OR prescription_id ILIKE $3 OR drug_name ILIKE $3 OR patient_id ILIKE $3)`
	args := []interface{}{scope.DoctorID, params.Search, likePattern(params.Search)}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM prescriptions `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count prescriptions: %w", err)
	}

	ps := []*model.Prescription{}
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions ` + where +
		` ORDER BY prescribed_date DESC NULLS LAST, prescription_id LIMIT $4 OFFSET $5`
	if err := r.db.SelectContext(ctx, &ps, query, append(args, params.Limit, params.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return ps, total, nil
}

func (r *prescriptionRepository) ListAll(ctx context.Context) ([]*model.Prescription, error) {
	ps := []*model.Prescription{}
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions ORDER BY created_at, prescription_id`
	if err := r.db.SelectContext(ctx, &ps, query); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return ps, nil
}

func (r *prescriptionRepository) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT prescription_id FROM prescriptions`); err != nil {
		return nil, fmt.Errorf("failed to load prescription ids: %w", err)
	}
	return ids, nil
}
