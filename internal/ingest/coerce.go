package ingest

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/jwalitptl/hospital-api/internal/model"
)

// coercer turns validated text fields into typed values, collecting one error
// per field that cannot be read. Empty optional fields become zero values.
type coercer struct {
	row  Row
	errs []string
}

func (c *coercer) str(col string) string {
	return c.row.Get(col)
}

func (c *coercer) number(col string) float64 {
	raw := c.row.Get(col)
	if raw == "" {
		return 0
	}
	f, ok := parseNumber(raw)
	if !ok {
		c.errs = append(c.errs, fmt.Sprintf("%s must be a number", col))
	}
	return f
}

// integer reads a whole number. A fractional value is an error, never truncated.
func (c *coercer) integer(col string) int {
	raw := c.row.Get(col)
	if raw == "" {
		return 0
	}
	n, ok := parseInteger(raw)
	if !ok {
		c.errs = append(c.errs, fmt.Sprintf("%s must be a whole number", col))
	}
	return n
}

func (c *coercer) boolean(col string) bool {
	v := c.row.Get(col)
	return v == "Yes" || strings.EqualFold(v, "true")
}

func (c *coercer) list(col string) pq.StringArray {
	items := pq.StringArray{}
	for _, part := range strings.Split(c.row.Get(col), ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func (c *coercer) date(col string) model.Date {
	raw := c.row.Get(col)
	if raw == "" {
		return model.Date{}
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		c.errs = append(c.errs, fmt.Sprintf("%s must be a valid date", col))
	}
	return d
}

func CoercePatient(row Row) (*model.Patient, []string) {
	c := &coercer{row: row}
	p := &model.Patient{
		PatientID:         c.str("patient_id"),
		FullName:          c.str("full_name"),
		Age:               c.integer("age"),
		Gender:            c.str("gender"),
		BloodGroup:        c.str("blood_group"),
		PhoneNumber:       c.str("phone_number"),
		Email:             strings.ToLower(c.str("email")),
		EmergencyContact:  c.str("emergency_contact"),
		HospitalLocation:  c.str("hospital_location"),
		BMI:               c.number("bmi"),
		SmokerStatus:      c.boolean("smoker_status"),
		AlcoholUse:        c.boolean("alcohol_use"),
		ChronicConditions: c.list("chronic_conditions"),
		RegistrationDate:  c.date("registration_date"),
		InsuranceType:     c.str("insurance_type"),
	}
	return p, c.errs
}

func CoerceVisit(row Row) (*model.Visit, []string) {
	c := &coercer{row: row}
	v := &model.Visit{
		VisitID:                c.str("visit_id"),
		PatientID:              c.str("patient_id"),
		DoctorID:               c.str("doctor_id"),
		VisitDate:              c.date("visit_date"),
		SeverityScore:          c.integer("severity_score"),
		VisitType:              c.str("visit_type"),
		LengthOfStay:           c.integer("length_of_stay"),
		LabResultGlucose:       c.number("lab_result_glucose"),
		LabResultBP:            c.str("lab_result_bp"),
		PreviousVisitGapDays:   c.integer("previous_visit_gap_days"),
		ReadmittedWithin30Days: c.boolean("readmitted_within_30_days"),
		VisitCost:              c.number("visit_cost"),
	}
	return v, c.errs
}

// CoercePrescription assigns the importing doctor to the record.
func CoercePrescription(row Row, actor model.Actor) (*model.Prescription, []string) {
	c := &coercer{row: row}
	p := &model.Prescription{
		PrescriptionID:       c.str("prescription_id"),
		VisitID:              c.str("visit_id"),
		PatientID:            c.str("patient_id"),
		DoctorID:             actor.DoctorID,
		DiagnosisID:          c.str("diagnosis_id"),
		DiagnosisDescription: c.str("diagnosis_description"),
		DrugName:             c.str("drug_name"),
		DrugCategory:         c.str("drug_category"),
		Dosage:               c.str("dosage"),
		Quantity:             c.integer("quantity"),
		DaysSupply:           c.integer("days_supply"),
		PrescribedDate:       c.date("prescribed_date"),
		Cost:                 c.number("cost"),
	}
	if len([]rune(p.DiagnosisDescription)) > model.MaxDiagnosisDescriptionLen {
		c.errs = append(c.errs, fmt.Sprintf("diagnosis_description must be at most %d characters", model.MaxDiagnosisDescriptionLen))
	}
	return p, c.errs
}
