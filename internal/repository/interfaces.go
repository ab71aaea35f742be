package repository

import (
	"context"
	"errors"

	"github.com/jwalitptl/hospital-api/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate business identifier")
)

// Scope restricts visit and prescription queries to one doctor. The zero value is unscoped.
type Scope struct {
	DoctorID string
}

func (s Scope) Unscoped() bool {
	return s.DoctorID == ""
}

// InsertFailure is one record an unordered batch insert could not persist.
type InsertFailure struct {
	Index int
	ID    string
	Err   error
}

// BatchResult reports an unordered batch insert.
type BatchResult struct {
	Inserted int
	Failures []InsertFailure
}

// All repository interfaces in one file
type (
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		InsertMany(ctx context.Context, patients []*model.Patient) (*BatchResult, error)
		Get(ctx context.Context, patientID string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, patientID string) (*model.Patient, error)
		List(ctx context.Context, params model.ListParams) ([]*model.Patient, int, error)
		ListAll(ctx context.Context) ([]*model.Patient, error)
		IDs(ctx context.Context) ([]string, error)
		Names(ctx context.Context, patientIDs []string) (map[string]string, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, doctorID string) (*model.Doctor, error)
		GetByUserID(ctx context.Context, userID string) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, doctorID string) (*model.Doctor, error)
		List(ctx context.Context, params model.ListParams) ([]*model.Doctor, int, error)
		ListAll(ctx context.Context) ([]*model.Doctor, error)
		IDs(ctx context.Context) ([]string, error)
		GetMany(ctx context.Context, doctorIDs []string) (map[string]*model.Doctor, error)
	}

	VisitRepository interface {
		Create(ctx context.Context, visit *model.Visit) error
		InsertMany(ctx context.Context, visits []*model.Visit) (*BatchResult, error)
		Get(ctx context.Context, visitID string, scope Scope) (*model.Visit, error)
		Update(ctx context.Context, visit *model.Visit, scope Scope) error
		Delete(ctx context.Context, visitID string, scope Scope) (*model.Visit, error)
		List(ctx context.Context, params model.ListParams, scope Scope) ([]*model.Visit, int, error)
		ListAll(ctx context.Context) ([]*model.Visit, error)
		// ListByPatient returns the patient's visits in ascending visit_date order.
		ListByPatient(ctx context.Context, patientID string, scope Scope) ([]*model.Visit, error)
		IDs(ctx context.Context) ([]string, error)
		Refs(ctx context.Context) (map[string]model.VisitRef, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		InsertMany(ctx context.Context, prescriptions []*model.Prescription) (*BatchResult, error)
		Get(ctx context.Context, prescriptionID string, scope Scope) (*model.Prescription, error)
		Update(ctx context.Context, prescription *model.Prescription, scope Scope) error
		Delete(ctx context.Context, prescriptionID string, scope Scope) (*model.Prescription, error)
		List(ctx context.Context, params model.ListParams, scope Scope) ([]*model.Prescription, int, error)
		ListAll(ctx context.Context) ([]*model.Prescription, error)
		IDs(ctx context.Context) ([]string, error)
	}

	// Pinger reports store health.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

// Repositories bundles every store a service layer needs.
type Repositories struct {
	Patients      PatientRepository
	Doctors       DoctorRepository
	Visits        VisitRepository
	Prescriptions PrescriptionRepository
	Health        Pinger
}
