// Package mirror keeps a complete offline copy of the hospital records as an
// immutable State advanced by Reduce. Persistence lives behind a Persister so
// the transition function never performs I/O.
package mirror

import (
	"github.com/jwalitptl/hospital-api/internal/model"
)

type State struct {
	Patients      []model.Patient      `json:"patients"`
	Doctors       []model.Doctor       `json:"doctors"`
	Visits        []model.Visit        `json:"visits"`
	Prescriptions []model.Prescription `json:"prescriptions"`

	// CurrentUser is session state and is never persisted.
	CurrentUser *model.UserInfo `json:"-"`
}

func (s State) Authenticated() bool {
	return s.CurrentUser != nil
}

// Action is a state transition. The set of actions is closed.
type Action interface {
	apply(State) State
}

type (
	AddPatient    struct{ Patient model.Patient }
	AddPatients   struct{ Patients []model.Patient }
	UpdatePatient struct{ Patient model.Patient }
	DeletePatient struct{ PatientID string }

	AddDoctor    struct{ Doctor model.Doctor }
	AddDoctors   struct{ Doctors []model.Doctor }
	UpdateDoctor struct{ Doctor model.Doctor }
	DeleteDoctor struct{ DoctorID string }

	AddVisit    struct{ Visit model.Visit }
	AddVisits   struct{ Visits []model.Visit }
	UpdateVisit struct{ Visit model.Visit }
	DeleteVisit struct{ VisitID string }

	AddPrescription    struct{ Prescription model.Prescription }
	AddPrescriptions   struct{ Prescriptions []model.Prescription }
	UpdatePrescription struct{ Prescription model.Prescription }
	DeletePrescription struct{ PrescriptionID string }

	Login  struct{ User model.UserInfo }
	Logout struct{}

	// Load replaces every collection and keeps the current session.
	Load struct{ State State }
)

// Reduce returns the state that results from applying a to s. It never
// modifies s or any slice reachable from it.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

func patientKey(p model.Patient) string           { return p.PatientID }
func doctorKey(d model.Doctor) string             { return d.DoctorID }
func visitKey(v model.Visit) string               { return v.VisitID }
func prescriptionKey(p model.Prescription) string { return p.PrescriptionID }

func (a AddPatient) apply(s State) State {
	s.Patients = appended(s.Patients, a.Patient)
	return s
}

func (a AddPatients) apply(s State) State {
	s.Patients = appended(s.Patients, a.Patients...)
	return s
}

func (a UpdatePatient) apply(s State) State {
	s.Patients = replaced(s.Patients, a.Patient, patientKey)
	return s
}

func (a DeletePatient) apply(s State) State {
	s.Patients = removed(s.Patients, a.PatientID, patientKey)
	return s
}

func (a AddDoctor) apply(s State) State {
	s.Doctors = appended(s.Doctors, a.Doctor)
	return s
}

func (a AddDoctors) apply(s State) State {
	s.Doctors = appended(s.Doctors, a.Doctors...)
	return s
}

func (a UpdateDoctor) apply(s State) State {
	s.Doctors = replaced(s.Doctors, a.Doctor, doctorKey)
	return s
}

func (a DeleteDoctor) apply(s State) State {
	s.Doctors = removed(s.Doctors, a.DoctorID, doctorKey)
	return s
}

func (a AddVisit) apply(s State) State {
	s.Visits = appended(s.Visits, a.Visit)
	return s
}

func (a AddVisits) apply(s State) State {
	s.Visits = appended(s.Visits, a.Visits...)
	return s
}

func (a UpdateVisit) apply(s State) State {
	s.Visits = replaced(s.Visits, a.Visit, visitKey)
	return s
}

func (a DeleteVisit) apply(s State) State {
	s.Visits = removed(s.Visits, a.VisitID, visitKey)
	return s
}

func (a AddPrescription) apply(s State) State {
	s.Prescriptions = appended(s.Prescriptions, a.Prescription)
	return s
}

func (a AddPrescriptions) apply(s State) State {
	s.Prescriptions = appended(s.Prescriptions, a.Prescriptions...)
	return s
}

func (a UpdatePrescription) apply(s State) State {
	s.Prescriptions = replaced(s.Prescriptions, a.Prescription, prescriptionKey)
	return s
}

func (a DeletePrescription) apply(s State) State {
	s.Prescriptions = removed(s.Prescriptions, a.PrescriptionID, prescriptionKey)
	return s
}

func (a Login) apply(s State) State {
	u := a.User
	s.CurrentUser = &u
	return s
}

func (Logout) apply(s State) State {
	s.CurrentUser = nil
	return s
}

func (a Load) apply(s State) State {
	next := a.State
	next.CurrentUser = s.CurrentUser
	return next
}

// collectionChange reports whether a touches persisted collections.
func collectionChange(a Action) bool {
	switch a.(type) {
	case nil, Login, Logout:
		return false
	}
	return true
}

func appended[T any](items []T, add ...T) []T {
	out := make([]T, 0, len(items)+len(add))
	out = append(out, items...)
	return append(out, add...)
}

func replaced[T any](items []T, item T, key func(T) string) []T {
	out := make([]T, len(items))
	for i, it := range items {
		if key(it) == key(item) {
			out[i] = item
			continue
		}
		out[i] = it
	}
	return out
}

func removed[T any](items []T, id string, key func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if key(it) != id {
			out = append(out, it)
		}
	}
	return out
}
