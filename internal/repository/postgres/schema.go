package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Business identifiers carry UNIQUE constraints; the store is the last word on uniqueness.
// There are no foreign keys: deleting a patient or doctor leaves its visits in place.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		patient_id         TEXT PRIMARY KEY,
		full_name          TEXT NOT NULL,
		age                INTEGER NOT NULL CHECK (age BETWEEN 0 AND 150),
		gender             TEXT NOT NULL,
		blood_group        TEXT NOT NULL,
		phone_number       TEXT NOT NULL DEFAULT '',
		email              TEXT NOT NULL,
		emergency_contact  TEXT NOT NULL DEFAULT '',
		hospital_location  TEXT NOT NULL DEFAULT '',
		bmi                DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (bmi >= 0),
		smoker_status      BOOLEAN NOT NULL DEFAULT FALSE,
		alcohol_use        BOOLEAN NOT NULL DEFAULT FALSE,
		chronic_conditions TEXT[] NOT NULL DEFAULT '{}',
		registration_date  TIMESTAMPTZ,
		insurance_type     TEXT NOT NULL DEFAULT '',
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS doctors (
		doctor_id         TEXT PRIMARY KEY,
		doctor_name       TEXT NOT NULL,
		user_id           TEXT NOT NULL UNIQUE,
		password_hash     TEXT NOT NULL,
		doctor_speciality TEXT NOT NULL,
		role              TEXT NOT NULL DEFAULT 'doctor' CHECK (role IN ('admin', 'doctor')),
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS visits (
		visit_id                  TEXT PRIMARY KEY,
		patient_id                TEXT NOT NULL,
		doctor_id                 TEXT NOT NULL,
		visit_date                TIMESTAMPTZ,
		severity_score            INTEGER NOT NULL CHECK (severity_score BETWEEN 0 AND 5),
		visit_type                TEXT NOT NULL CHECK (visit_type IN ('OP', 'IP')),
		length_of_stay            INTEGER NOT NULL DEFAULT 0,
		lab_result_glucose        DOUBLE PRECISION NOT NULL DEFAULT 0,
		lab_result_bp             TEXT NOT NULL DEFAULT '',
		previous_visit_gap_days   INTEGER NOT NULL DEFAULT 0,
		readmitted_within_30_days BOOLEAN NOT NULL DEFAULT FALSE,
		visit_cost                DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at                TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at                TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK ((visit_type = 'OP' AND length_of_stay = 0) OR (visit_type = 'IP' AND length_of_stay >= 1))
	)`,
	`CREATE INDEX IF NOT EXISTS visits_doctor_idx ON visits (doctor_id)`,
	`CREATE INDEX IF NOT EXISTS visits_patient_date_idx ON visits (patient_id, visit_date)`,
	`CREATE TABLE IF NOT EXISTS prescriptions (
		prescription_id       TEXT PRIMARY KEY,
		visit_id              TEXT NOT NULL,
		patient_id            TEXT NOT NULL,
		doctor_id             TEXT NOT NULL,
		diagnosis_id          TEXT NOT NULL DEFAULT '',
		diagnosis_description VARCHAR(500) NOT NULL DEFAULT '',
		drug_name             TEXT NOT NULL,
		drug_category         TEXT NOT NULL DEFAULT '',
		dosage                TEXT NOT NULL DEFAULT '',
		quantity              INTEGER NOT NULL CHECK (quantity >= 1),
		days_supply           INTEGER NOT NULL CHECK (days_supply >= 1),
		prescribed_date       TIMESTAMPTZ,
		cost                  DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS prescriptions_doctor_idx ON prescriptions (doctor_id)`,
}

// Migrate creates the tables if they do not exist, in a single transaction.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	base := NewBaseRepository(db)
	return base.WithTx(ctx, func(tx *sqlx.Tx) error {
		for i, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
			}
		}
		return nil
	})
}
