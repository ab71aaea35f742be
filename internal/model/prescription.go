package model

const MaxDiagnosisDescriptionLen = 500

type Prescription struct {
	PrescriptionID       string  `json:"prescription_id" db:"prescription_id"`
	VisitID              string  `json:"visit_id" db:"visit_id"`
	PatientID            string  `json:"patient_id" db:"patient_id"`
	DoctorID             string  `json:"doctor_id" db:"doctor_id"`
	DiagnosisID          string  `json:"diagnosis_id" db:"diagnosis_id"`
	DiagnosisDescription string  `json:"diagnosis_description" db:"diagnosis_description"`
	DrugName             string  `json:"drug_name" db:"drug_name"`
	DrugCategory         string  `json:"drug_category" db:"drug_category"`
	Dosage               string  `json:"dosage" db:"dosage"`
	Quantity             int     `json:"quantity" db:"quantity"`
	DaysSupply           int     `json:"days_supply" db:"days_supply"`
	PrescribedDate       Date    `json:"prescribed_date" db:"prescribed_date"`
	Cost                 float64 `json:"cost" db:"cost"`
	Timestamps
}

// PrescriptionView is a prescription enriched for listings.
type PrescriptionView struct {
	Prescription
	PatientName string `json:"patient_name"`
}

// CreatePrescriptionRequest accepts doctor_id for compatibility but it is always
// replaced with the doctor of the referenced visit.
type CreatePrescriptionRequest struct {
	PrescriptionID       string   `json:"prescription_id" binding:"required"`
	VisitID              string   `json:"visit_id" binding:"required"`
	PatientID            string   `json:"patient_id" binding:"required"`
	DoctorID             string   `json:"doctor_id"`
	DiagnosisID          string   `json:"diagnosis_id" binding:"required"`
	DiagnosisDescription string   `json:"diagnosis_description" binding:"required,max=500"`
	DrugName             string   `json:"drug_name" binding:"required"`
	DrugCategory         string   `json:"drug_category" binding:"required"`
	Dosage               string   `json:"dosage" binding:"required"`
	Quantity             *int     `json:"quantity" binding:"required,min=1"`
	DaysSupply           *int     `json:"days_supply" binding:"required,min=1"`
	PrescribedDate       Date     `json:"prescribed_date"`
	Cost                 *float64 `json:"cost" binding:"required,min=0"`
}

func (r *CreatePrescriptionRequest) ToPrescription() *Prescription {
	return &Prescription{
		PrescriptionID:       r.PrescriptionID,
		VisitID:              r.VisitID,
		PatientID:            r.PatientID,
		DoctorID:             r.DoctorID,
		DiagnosisID:          r.DiagnosisID,
		DiagnosisDescription: r.DiagnosisDescription,
		DrugName:             r.DrugName,
		DrugCategory:         r.DrugCategory,
		Dosage:               r.Dosage,
		Quantity:             derefInt(r.Quantity),
		DaysSupply:           derefInt(r.DaysSupply),
		PrescribedDate:       r.PrescribedDate,
		Cost:                 derefFloat(r.Cost),
	}
}

// UpdatePrescriptionRequest cannot relink a prescription to another visit, patient or doctor.
type UpdatePrescriptionRequest struct {
	DiagnosisID          *string  `json:"diagnosis_id"`
	DiagnosisDescription *string  `json:"diagnosis_description" binding:"omitempty,max=500"`
	DrugName             *string  `json:"drug_name" binding:"omitempty,min=1"`
	DrugCategory         *string  `json:"drug_category"`
	Dosage               *string  `json:"dosage" binding:"omitempty,min=1"`
	Quantity             *int     `json:"quantity" binding:"omitempty,min=1"`
	DaysSupply           *int     `json:"days_supply" binding:"omitempty,min=1"`
	PrescribedDate       *Date    `json:"prescribed_date"`
	Cost                 *float64 `json:"cost" binding:"omitempty,min=0"`
}

func (r *UpdatePrescriptionRequest) Apply(p *Prescription) {
	setString(&p.DiagnosisID, r.DiagnosisID)
	setString(&p.DiagnosisDescription, r.DiagnosisDescription)
	setString(&p.DrugName, r.DrugName)
	setString(&p.DrugCategory, r.DrugCategory)
	setString(&p.Dosage, r.Dosage)
	if r.Quantity != nil {
		p.Quantity = *r.Quantity
	}
	if r.DaysSupply != nil {
		p.DaysSupply = *r.DaysSupply
	}
	if r.PrescribedDate != nil {
		p.PrescribedDate = *r.PrescribedDate
	}
	if r.Cost != nil {
		p.Cost = *r.Cost
	}
}
