package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/repository"
)

// NewRepositories wires every Postgres-backed store on one connection pool.
func NewRepositories(db *sqlx.DB) *repository.Repositories {
	base := NewBaseRepository(db)
	return &repository.Repositories{
		Patients:      NewPatientRepository(db),
		Doctors:       NewDoctorRepository(db),
		Visits:        NewVisitRepository(db),
		Prescriptions: NewPrescriptionRepository(db),
		Health:        &base,
	}
}
