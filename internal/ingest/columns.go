package ingest

import (
	"fmt"
	"strings"

	"github.com/jwalitptl/hospital-api/internal/model"
)

var (
	PatientColumns = []string{
		"patient_id", "full_name", "age", "gender", "blood_group",
		"phone_number", "email", "emergency_contact", "hospital_location",
		"bmi", "smoker_status", "alcohol_use", "chronic_conditions",
		"registration_date", "insurance_type",
	}

	VisitColumns = []string{
		"visit_id", "patient_id", "doctor_id", "visit_date", "severity_score",
		"visit_type", "length_of_stay", "lab_result_glucose", "lab_result_bp",
		"previous_visit_gap_days", "readmitted_within_30_days", "visit_cost",
	}

	PrescriptionColumns = []string{
		"prescription_id", "visit_id", "patient_id", "diagnosis_id",
		"diagnosis_description", "drug_name", "drug_category", "dosage",
		"quantity", "days_supply", "prescribed_date", "cost",
	}
)

// Columns returns the required header names for kind.
func Columns(kind model.EntityKind) ([]string, error) {
	switch kind {
	case model.EntityPatients:
		return PatientColumns, nil
	case model.EntityVisits:
		return VisitColumns, nil
	case model.EntityPrescriptions:
		return PrescriptionColumns, nil
	}
	return nil, fmt.Errorf("%s cannot be imported", kind)
}

// SchemaError lists required columns absent from the header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "Missing required columns: " + strings.Join(e.Missing, ", ")
}

// Detail is the message reported to clients. Header problems belong to row 0.
func (e *SchemaError) Detail() string {
	return "Row 0: " + e.Error()
}

// CheckHeader reports every required column missing from header, in
// required order. Extra columns are allowed.
func CheckHeader(required, header []string) error {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, col := range required {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
