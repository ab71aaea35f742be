package model

const (
	VisitTypeOutpatient = "OP"
	VisitTypeInpatient  = "IP"

	MinSeverity = 0
	MaxSeverity = 5
)

type Visit struct {
	VisitID                string  `json:"visit_id" db:"visit_id"`
	PatientID              string  `json:"patient_id" db:"patient_id"`
	DoctorID               string  `json:"doctor_id" db:"doctor_id"`
	VisitDate              Date    `json:"visit_date" db:"visit_date"`
	SeverityScore          int     `json:"severity_score" db:"severity_score"`
	VisitType              string  `json:"visit_type" db:"visit_type"`
	LengthOfStay           int     `json:"length_of_stay" db:"length_of_stay"`
	LabResultGlucose       float64 `json:"lab_result_glucose" db:"lab_result_glucose"`
	LabResultBP            string  `json:"lab_result_bp" db:"lab_result_bp"`
	PreviousVisitGapDays   int     `json:"previous_visit_gap_days" db:"previous_visit_gap_days"`
	ReadmittedWithin30Days bool    `json:"readmitted_within_30_days" db:"readmitted_within_30_days"`
	VisitCost              float64 `json:"visit_cost" db:"visit_cost"`
	Timestamps
}

// StayError returns the message for a visit_type/length_of_stay mismatch, or "".
func StayError(visitType string, lengthOfStay int) string {
	switch visitType {
	case VisitTypeOutpatient:
		if lengthOfStay != 0 {
			return "OP visits must have length_of_stay = 0"
		}
	case VisitTypeInpatient:
		if lengthOfStay < 1 {
			return "IP visits must have length_of_stay >= 1"
		}
	}
	return ""
}

// VisitView is a visit enriched for listings.
type VisitView struct {
	Visit
	PatientName      string `json:"patient_name"`
	DoctorName       string `json:"doctor_name"`
	DoctorSpeciality string `json:"doctor_speciality"`
}

// VisitRef is the part of a visit other records link against.
type VisitRef struct {
	PatientID string
	DoctorID  string
}

type CreateVisitRequest struct {
	VisitID                string   `json:"visit_id" binding:"required"`
	PatientID              string   `json:"patient_id" binding:"required"`
	DoctorID               string   `json:"doctor_id" binding:"required"`
	VisitDate              Date     `json:"visit_date"`
	SeverityScore          *int     `json:"severity_score" binding:"required,min=0,max=5"`
	VisitType              string   `json:"visit_type" binding:"required,oneof=OP IP"`
	LengthOfStay           *int     `json:"length_of_stay" binding:"required,min=0"`
	LabResultGlucose       *float64 `json:"lab_result_glucose" binding:"required,min=0"`
	LabResultBP            string   `json:"lab_result_bp" binding:"required"`
	PreviousVisitGapDays   *int     `json:"previous_visit_gap_days" binding:"required,min=0"`
	ReadmittedWithin30Days *bool    `json:"readmitted_within_30_days" binding:"required"`
	VisitCost              *float64 `json:"visit_cost" binding:"required,min=0"`
}

func (r *CreateVisitRequest) ToVisit() *Visit {
	v := &Visit{
		VisitID:     r.VisitID,
		PatientID:   r.PatientID,
		DoctorID:    r.DoctorID,
		VisitDate:   r.VisitDate,
		VisitType:   r.VisitType,
		LabResultBP: r.LabResultBP,
	}
	v.SeverityScore = derefInt(r.SeverityScore)
	v.LengthOfStay = derefInt(r.LengthOfStay)
	v.LabResultGlucose = derefFloat(r.LabResultGlucose)
	v.PreviousVisitGapDays = derefInt(r.PreviousVisitGapDays)
	v.VisitCost = derefFloat(r.VisitCost)
	if r.ReadmittedWithin30Days != nil {
		v.ReadmittedWithin30Days = *r.ReadmittedWithin30Days
	}
	return v
}

type UpdateVisitRequest struct {
	PatientID              *string  `json:"patient_id" binding:"omitempty,min=1"`
	DoctorID               *string  `json:"doctor_id" binding:"omitempty,min=1"`
	VisitDate              *Date    `json:"visit_date"`
	SeverityScore          *int     `json:"severity_score" binding:"omitempty,min=0,max=5"`
	VisitType              *string  `json:"visit_type" binding:"omitempty,oneof=OP IP"`
	LengthOfStay           *int     `json:"length_of_stay" binding:"omitempty,min=0"`
	LabResultGlucose       *float64 `json:"lab_result_glucose" binding:"omitempty,min=0"`
	LabResultBP            *string  `json:"lab_result_bp"`
	PreviousVisitGapDays   *int     `json:"previous_visit_gap_days" binding:"omitempty,min=0"`
	ReadmittedWithin30Days *bool    `json:"readmitted_within_30_days"`
	VisitCost              *float64 `json:"visit_cost" binding:"omitempty,min=0"`
}

func (r *UpdateVisitRequest) Apply(v *Visit) {
	setString(&v.PatientID, r.PatientID)
	setString(&v.DoctorID, r.DoctorID)
	if r.VisitDate != nil {
		v.VisitDate = *r.VisitDate
	}
	if r.SeverityScore != nil {
		v.SeverityScore = *r.SeverityScore
	}
	setString(&v.VisitType, r.VisitType)
	if r.LengthOfStay != nil {
		v.LengthOfStay = *r.LengthOfStay
	}
	if r.LabResultGlucose != nil {
		v.LabResultGlucose = *r.LabResultGlucose
	}
	setString(&v.LabResultBP, r.LabResultBP)
	if r.PreviousVisitGapDays != nil {
		v.PreviousVisitGapDays = *r.PreviousVisitGapDays
	}
	if r.ReadmittedWithin30Days != nil {
		v.ReadmittedWithin30Days = *r.ReadmittedWithin30Days
	}
	if r.VisitCost != nil {
		v.VisitCost = *r.VisitCost
	}
}

// Trend labels attached to each visit of a severity trend.
const (
	TrendNoChange  = "no_change"
	TrendIncreased = "increased"
	TrendImproved  = "improved"
)

// Severity change vocabulary used by the records mirror.
const (
	SeverityFirstVisit = "first-visit"
	SeverityIncreased  = "increased"
	SeverityImproved   = "improved"
	SeverityUnchanged  = "unchanged"
)

// TrendPoint is one visit of a patient's severity trend.
type TrendPoint struct {
	VisitID        string `json:"visit_id"`
	VisitDate      Date   `json:"visit_date"`
	SeverityScore  int    `json:"severity_score"`
	DoctorID       string `json:"doctor_id"`
	TrendStatus    string `json:"trend_status"`
	SeverityChange string `json:"severity_change"`
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
