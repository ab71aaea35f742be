package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/registry"
)

// Row validators never fail and never modify the snapshot. Every problem on a
// row is reported, in a fixed order.

func ValidatePatient(row Row, snap *registry.Snapshot) []string {
	var errs []string
	id := row.Get("patient_id")

	if id == "" {
		errs = append(errs, "patient_id is required")
	}
	if snap.Patients.Has(id) {
		errs = append(errs, fmt.Sprintf("patient_id %s already exists", id))
	}
	if row.Get("full_name") == "" {
		errs = append(errs, "full_name is required")
	}
	if age, ok := parseNumber(row.Get("age")); !ok || age < 0 || age > 150 {
		errs = append(errs, "age must be between 0 and 150")
	}
	if !oneOf(row.Get("gender"), model.Genders) {
		errs = append(errs, "gender must be Male, Female, or Other")
	}
	if !oneOf(row.Get("blood_group"), model.BloodGroups) {
		errs = append(errs, "Invalid blood_group")
	}
	if email := row.Get("email"); !strings.Contains(email, "@") {
		errs = append(errs, "Valid email is required")
	}
	return errs
}

func ValidateVisit(row Row, snap *registry.Snapshot) []string {
	var errs []string
	id := row.Get("visit_id")

	if id == "" {
		errs = append(errs, "visit_id is required")
	}
	if snap.Visits.Has(id) {
		errs = append(errs, fmt.Sprintf("visit_id %s already exists", id))
	}
	if pid := row.Get("patient_id"); pid == "" || !snap.Patients.Has(pid) {
		errs = append(errs, fmt.Sprintf("patient_id %s does not exist", pid))
	}
	if did := row.Get("doctor_id"); did == "" || !snap.Doctors.Has(did) {
		errs = append(errs, fmt.Sprintf("doctor_id %s does not exist", did))
	}
	if sev, ok := parseInteger(row.Get("severity_score")); !ok || sev < model.MinSeverity || sev > model.MaxSeverity {
		errs = append(errs, "severity_score must be an integer between 0 and 5")
	}

	visitType := row.Get("visit_type")
	if visitType != model.VisitTypeOutpatient && visitType != model.VisitTypeInpatient {
		errs = append(errs, "visit_type must be OP or IP")
	}
	if msg := stayError(visitType, row.Get("length_of_stay")); msg != "" {
		errs = append(errs, msg)
	}
	return errs
}

// stayError applies the visit_type/length_of_stay rule. An unreadable length
// never satisfies either visit type.
func stayError(visitType, raw string) string {
	los, ok := parseInteger(raw)
	if !ok {
		los = -1
	}
	return model.StayError(visitType, los)
}

// ValidatePrescription checks a row imported by actor. Every visit must belong
// to the importing doctor and link the same patient.
func ValidatePrescription(row Row, snap *registry.Snapshot, actor model.Actor) []string {
	var errs []string
	visitID := row.Get("visit_id")
	patientID := row.Get("patient_id")

	if row.Get("prescription_id") == "" {
		errs = append(errs, "prescription_id is required")
	}
	ref, visitKnown := snap.VisitRefs[visitID]
	if visitID == "" || !visitKnown {
		errs = append(errs, fmt.Sprintf("visit_id %s does not exist", visitID))
	}
	patientKnown := patientID != "" && snap.Patients.Has(patientID)
	if !patientKnown {
		errs = append(errs, fmt.Sprintf("patient_id %s does not exist", patientID))
	}
	if visitKnown && ref.DoctorID != actor.DoctorID {
		errs = append(errs, fmt.Sprintf("visit_id %s does not belong to this doctor", visitID))
	}
	if visitKnown && patientKnown && ref.PatientID != patientID {
		errs = append(errs, fmt.Sprintf("patient_id %s does not match visit_id %s", patientID, visitID))
	}
	if row.Get("drug_name") == "" {
		errs = append(errs, "drug_name is required")
	}
	if q, ok := parseInteger(row.Get("quantity")); !ok || q < 1 {
		errs = append(errs, "quantity must be at least 1")
	}
	if d, ok := parseInteger(row.Get("days_supply")); !ok || d < 1 {
		errs = append(errs, "days_supply must be at least 1")
	}
	return errs
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// parseNumber reads a finite decimal number.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseInteger reads a whole number; "3" and "3.0" are accepted, "3.5" is not.
func parseInteger(s string) (int, bool) {
	f, ok := parseNumber(s)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
