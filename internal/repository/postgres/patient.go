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

const patientColumns = `patient_id, full_name, age, gender, blood_group, phone_number, email,
	emergency_contact, hospital_location, bmi, smoker_status, alcohol_use,
	chronic_conditions, registration_date, insurance_type, created_at, updated_at`

const insertPatient = `
	INSERT INTO patients (` + patientColumns + `)
	VALUES (:patient_id, :full_name, :age, :gender, :blood_group, :phone_number, :email,
		:emergency_contact, :hospital_location, :bmi, :smoker_status, :alcohol_use,
		:chronic_conditions, :registration_date, :insurance_type, :created_at, :updated_at)
`

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{BaseRepository: NewBaseRepository(db)}
}

func stampNew(ts *model.Timestamps) {
	now := time.Now().UTC()
	ts.CreatedAt = now
	ts.UpdatedAt = now
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	stampNew(&patient.Timestamps)
	if patient.ChronicConditions == nil {
		patient.ChronicConditions = pq.StringArray{}
	}
	if err := r.insertNamed(ctx, insertPatient, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) InsertMany(ctx context.Context, patients []*model.Patient) (*repository.BatchResult, error) {
	return repository.InsertEach(len(patients),
		func(i int) string { return patients[i].PatientID },
		func(i int) error { return r.Create(ctx, patients[i]) },
	), nil
}

func (r *patientRepository) Get(ctx context.Context, patientID string) (*model.Patient, error) {
	var patient model.Patient
	query := `SELECT ` + patientColumns + ` FROM patients WHERE patient_id = $1`
	if err := r.db.GetContext(ctx, &patient, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", mapError(err))
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	patient.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE patients SET
			full_name = :full_name, age = :age, gender = :gender, blood_group = :blood_group,
			phone_number = :phone_number, email = :email, emergency_contact = :emergency_contact,
			hospital_location = :hospital_location, bmi = :bmi, smoker_status = :smoker_status,
			alcohol_use = :alcohol_use, chronic_conditions = :chronic_conditions,
			registration_date = :registration_date, insurance_type = :insurance_type,
			updated_at = :updated_at
		WHERE patient_id = :patient_id
	`
	res, err := r.db.NamedExecContext(ctx, query, patient)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", mapError(err))
	}
	if err := rowsAffected(res); err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, patientID string) (*model.Patient, error) {
	var patient model.Patient
	query := `DELETE FROM patients WHERE patient_id = $1 RETURNING ` + patientColumns
	if err := r.db.GetContext(ctx, &patient, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to delete patient: %w", mapError(err))
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, params model.ListParams) ([]*model.Patient, int, error) {
	where := `WHERE ($1 = '' OR full_name ILIKE $2 OR patient_id ILIKE $2 OR email ILIKE $2)`
	args := []interface{}{params.Search, likePattern(params.Search)}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM patients `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	patients := []*model.Patient{}
	query := `SELECT ` + patientColumns + ` FROM patients ` + where +
		` ORDER BY created_at DESC, patient_id LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &patients, query, append(args, params.Limit, params.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, total, nil
}

func (r *patientRepository) ListAll(ctx context.Context) ([]*model.Patient, error) {
	patients := []*model.Patient{}
	query := `SELECT ` + patientColumns + ` FROM patients ORDER BY created_at, patient_id`
	if err := r.db.SelectContext(ctx, &patients, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT patient_id FROM patients`); err != nil {
		return nil, fmt.Errorf("failed to load patient ids: %w", err)
	}
	return ids, nil
}

func (r *patientRepository) Names(ctx context.Context, patientIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(patientIDs))
	if len(patientIDs) == 0 {
		return names, nil
	}
	rows := []struct {
		PatientID string `db:"patient_id"`
		FullName  string `db:"full_name"`
	}{}
	query := `SELECT patient_id, full_name FROM patients WHERE patient_id = ANY($1)`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(patientIDs)); err != nil {
		return nil, fmt.Errorf("failed to load patient names: %w", err)
	}
	for _, row := range rows {
		names[row.PatientID] = row.FullName
	}
	return names, nil
}
