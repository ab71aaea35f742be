package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/registry"
)

func snapshot() *registry.Snapshot {
	return &registry.Snapshot{
		Patients:      registry.NewSet("PAT-1", "PAT-2"),
		Doctors:       registry.NewSet("DOC-A", "DOC-B"),
		Visits:        registry.NewSet("V-OLD", "V-A"),
		Prescriptions: registry.NewSet("R-OLD"),
		VisitRefs: map[string]model.VisitRef{
			"V-OLD": {PatientID: "PAT-1", DoctorID: "DOC-B"},
			"V-A":   {PatientID: "PAT-2", DoctorID: "DOC-A"},
		},
	}
}

func patientRow() Row {
	return Row{
		"patient_id": "PAT-9", "full_name": "Jane Doe", "age": "42", "gender": "Female",
		"blood_group": "AB-", "email": "jane@example.com",
	}
}

func visitRow() Row {
	return Row{
		"visit_id": "V-NEW", "patient_id": "PAT-1", "doctor_id": "DOC-A",
		"severity_score": "3", "visit_type": "OP", "length_of_stay": "0",
	}
}

func prescriptionRow() Row {
	return Row{
		"prescription_id": "R-NEW", "visit_id": "V-A", "patient_id": "PAT-2",
		"drug_name": "Metformin", "quantity": "30", "days_supply": "30",
	}
}

func TestValidatePatient(t *testing.T) {
	assert.Empty(t, ValidatePatient(patientRow(), snapshot()))

	row := patientRow()
	row["age"] = "0"
	assert.Empty(t, ValidatePatient(row, snapshot()))

	errs := ValidatePatient(Row{"patient_id": "PAT-1", "age": "151", "gender": "male", "blood_group": "C", "email": "nope"}, snapshot())
	assert.Equal(t, []string{
		"patient_id PAT-1 already exists",
		"full_name is required",
		"age must be between 0 and 150",
		"gender must be Male, Female, or Other",
		"Invalid blood_group",
		"Valid email is required",
	}, errs)

	errs = ValidatePatient(Row{"full_name": "X", "age": "abc", "gender": "Other", "blood_group": "O+", "email": "a@b"}, snapshot())
	assert.Equal(t, []string{"patient_id is required", "age must be between 0 and 150"}, errs)
}

func TestValidateVisitSeverity(t *testing.T) {
	for _, score := range []string{"6", "-1", "2.5", "abc", "", "NaN", "Inf"} {
		row := visitRow()
		row["severity_score"] = score
		errs := ValidateVisit(row, snapshot())
		require.Len(t, errs, 1, score)
		assert.Contains(t, errs[0], "severity_score", score)
	}
	for _, score := range []string{"0", "5", "3.0"} {
		row := visitRow()
		row["severity_score"] = score
		assert.Empty(t, ValidateVisit(row, snapshot()), score)
	}
}

func TestValidateVisitLengthOfStay(t *testing.T) {
	tests := []struct {
		visitType string
		los       string
		want      []string
	}{
		{"OP", "0", nil},
		{"OP", "1", []string{"OP visits must have length_of_stay = 0"}},
		{"OP", "", []string{"OP visits must have length_of_stay = 0"}},
		{"IP", "1", nil},
		{"IP", "0", []string{"IP visits must have length_of_stay >= 1"}},
		{"IP", "x", []string{"IP visits must have length_of_stay >= 1"}},
		{"ER", "0", []string{"visit_type must be OP or IP"}},
	}
	for _, tt := range tests {
		row := visitRow()
		row["visit_type"] = tt.visitType
		row["length_of_stay"] = tt.los
		assert.Equal(t, tt.want, ValidateVisit(row, snapshot()), "%s/%s", tt.visitType, tt.los)
	}
}

func TestValidateVisitReferences(t *testing.T) {
	row := visitRow()
	row["visit_id"] = "V-OLD"
	row["patient_id"] = "PAT-404"
	row["doctor_id"] = ""

	assert.Equal(t, []string{
		"visit_id V-OLD already exists",
		"patient_id PAT-404 does not exist",
		"doctor_id  does not exist",
	}, ValidateVisit(row, snapshot()))
}

func TestValidatePrescription(t *testing.T) {
	actor := model.Actor{Role: model.RoleDoctor, DoctorID: "DOC-A"}
	assert.Empty(t, ValidatePrescription(prescriptionRow(), snapshot(), actor))

	row := prescriptionRow()
	row["visit_id"] = "V-OLD"
	row["patient_id"] = "PAT-1"
	assert.Equal(t, []string{"visit_id V-OLD does not belong to this doctor"}, ValidatePrescription(row, snapshot(), actor))

	row = prescriptionRow()
	row["patient_id"] = "PAT-1"
	assert.Equal(t, []string{"patient_id PAT-1 does not match visit_id V-A"}, ValidatePrescription(row, snapshot(), actor))

	errs := ValidatePrescription(Row{"visit_id": "V-404", "quantity": "0", "days_supply": "two"}, snapshot(), actor)
	assert.Equal(t, []string{
		"prescription_id is required",
		"visit_id V-404 does not exist",
		"patient_id  does not exist",
		"drug_name is required",
		"quantity must be at least 1",
		"days_supply must be at least 1",
	}, errs)

	row = prescriptionRow()
	row["quantity"] = "1.5"
	row["days_supply"] = "7.25"
	assert.Equal(t, []string{
		"quantity must be at least 1",
		"days_supply must be at least 1",
	}, ValidatePrescription(row, snapshot(), actor))
}

func TestValidatorsDoNotMutateSnapshot(t *testing.T) {
	snap := snapshot()
	ValidatePatient(patientRow(), snap)
	ValidateVisit(visitRow(), snap)
	ValidatePrescription(prescriptionRow(), snap, model.Actor{DoctorID: "DOC-A"})

	assert.Equal(t, snapshot(), snap)
}

func TestCoerce(t *testing.T) {
	p, errs := CoercePatient(Row{
		"patient_id": "PAT-9", "age": "42", "email": "Jane@Example.COM", "bmi": "23.5",
		"smoker_status": "Yes", "alcohol_use": "No", "chronic_conditions": "Diabetes, Asthma,",
		"registration_date": "2024-02-10",
	})
	require.Empty(t, errs)
	assert.Equal(t, 42, p.Age)
	assert.Equal(t, "jane@example.com", p.Email)
	assert.Equal(t, 23.5, p.BMI)
	assert.True(t, p.SmokerStatus)
	assert.False(t, p.AlcoholUse)
	assert.Equal(t, []string{"Diabetes", "Asthma"}, []string(p.ChronicConditions))
	assert.Equal(t, 2024, p.RegistrationDate.Year())

	v, errs := CoerceVisit(Row{"severity_score": "3", "length_of_stay": "2", "readmitted_within_30_days": "true", "visit_cost": "120.75", "visit_date": "2024-01-05"})
	require.Empty(t, errs)
	assert.Equal(t, 3, v.SeverityScore)
	assert.Equal(t, 2, v.LengthOfStay)
	assert.True(t, v.ReadmittedWithin30Days)
	assert.Equal(t, 120.75, v.VisitCost)

	_, errs = CoerceVisit(Row{"visit_cost": "cheap", "visit_date": "someday"})
	assert.Equal(t, []string{"visit_date must be a valid date", "visit_cost must be a number"}, errs)

	rx, errs := CoercePrescription(Row{"prescription_id": "R1", "quantity": "10"}, model.Actor{DoctorID: "DOC-A"})
	require.Empty(t, errs)
	assert.Equal(t, "DOC-A", rx.DoctorID)
	assert.Equal(t, 10, rx.Quantity)

	_, errs = CoercePrescription(Row{"prescription_id": "R2", "quantity": "2.5"}, model.Actor{DoctorID: "DOC-A"})
	assert.Equal(t, []string{"quantity must be a whole number"}, errs)

	_, errs = CoerceVisit(Row{"previous_visit_gap_days": "3.5", "visit_date": "2024-01-05"})
	assert.Equal(t, []string{"previous_visit_gap_days must be a whole number"}, errs)
}
