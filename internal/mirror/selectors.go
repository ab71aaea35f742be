package mirror

import (
	"fmt"
	"sort"

	"github.com/jwalitptl/hospital-api/internal/model"
)

func FindPatient(s State, patientID string) (model.Patient, bool) {
	for _, p := range s.Patients {
		if p.PatientID == patientID {
			return p, true
		}
	}
	return model.Patient{}, false
}

func FindDoctor(s State, doctorID string) (model.Doctor, bool) {
	for _, d := range s.Doctors {
		if d.DoctorID == doctorID {
			return d, true
		}
	}
	return model.Doctor{}, false
}

func FindVisit(s State, visitID string) (model.Visit, bool) {
	for _, v := range s.Visits {
		if v.VisitID == visitID {
			return v, true
		}
	}
	return model.Visit{}, false
}

func FindPrescription(s State, prescriptionID string) (model.Prescription, bool) {
	for _, p := range s.Prescriptions {
		if p.PrescriptionID == prescriptionID {
			return p, true
		}
	}
	return model.Prescription{}, false
}

// VisitsByPatient returns the patient's visits, newest first.
func VisitsByPatient(s State, patientID string) []model.Visit {
	return newestVisits(s.Visits, func(v model.Visit) bool { return v.PatientID == patientID })
}

// VisitsByDoctor returns the doctor's visits, newest first.
func VisitsByDoctor(s State, doctorID string) []model.Visit {
	return newestVisits(s.Visits, func(v model.Visit) bool { return v.DoctorID == doctorID })
}

func newestVisits(visits []model.Visit, keep func(model.Visit) bool) []model.Visit {
	out := []model.Visit{}
	for _, v := range visits {
		if keep(v) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].VisitDate.Before(out[i].VisitDate)
	})
	return out
}

// PrescriptionsByDoctor returns the doctor's prescriptions, most recently prescribed first.
func PrescriptionsByDoctor(s State, doctorID string) []model.Prescription {
	out := []model.Prescription{}
	for _, p := range s.Prescriptions {
		if p.DoctorID == doctorID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].PrescribedDate.Before(out[i].PrescribedDate)
	})
	return out
}

func PrescriptionsByVisit(s State, visitID string) []model.Prescription {
	out := []model.Prescription{}
	for _, p := range s.Prescriptions {
		if p.VisitID == visitID {
			out = append(out, p)
		}
	}
	return out
}

func IsPatientIDUnique(s State, patientID string) bool {
	_, found := FindPatient(s, patientID)
	return !found
}

func IsVisitIDUnique(s State, visitID string) bool {
	_, found := FindVisit(s, visitID)
	return !found
}

func IsDoctorUserIDUnique(s State, userID string) bool {
	for _, d := range s.Doctors {
		if d.UserID == userID {
			return false
		}
	}
	return true
}

// SeverityChange compares visit with the latest earlier visit of the same patient.
func SeverityChange(s State, visit model.Visit) string {
	var prev *model.Visit
	for i := range s.Visits {
		v := &s.Visits[i]
		if v.PatientID != visit.PatientID || v.VisitID == visit.VisitID {
			continue
		}
		if !v.VisitDate.Before(visit.VisitDate) {
			continue
		}
		if prev == nil || prev.VisitDate.Before(v.VisitDate) {
			prev = v
		}
	}

	switch {
	case prev == nil:
		return model.SeverityFirstVisit
	case visit.SeverityScore > prev.SeverityScore:
		return model.SeverityIncreased
	case visit.SeverityScore < prev.SeverityScore:
		return model.SeverityImproved
	default:
		return model.SeverityUnchanged
	}
}

// Sequential identifiers derived from the collection size.

func NextPatientID(s State) string {
	return fmt.Sprintf("PAT%05d", len(s.Patients)+1)
}

func NextVisitID(s State) string {
	return fmt.Sprintf("VIS%05d", len(s.Visits)+1)
}

func NextDoctorID(s State) string {
	return fmt.Sprintf("DOC%03d", len(s.Doctors)+1)
}

func NextPrescriptionID(s State) string {
	return fmt.Sprintf("PRE%05d", len(s.Prescriptions)+1)
}
