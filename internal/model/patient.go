package model

import (
	"github.com/lib/pq"
)

var (
	Genders     = []string{"Male", "Female", "Other"}
	BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
)

type Patient struct {
	PatientID         string         `json:"patient_id" db:"patient_id"`
	FullName          string         `json:"full_name" db:"full_name"`
	Age               int            `json:"age" db:"age"`
	Gender            string         `json:"gender" db:"gender"`
	BloodGroup        string         `json:"blood_group" db:"blood_group"`
	PhoneNumber       string         `json:"phone_number" db:"phone_number"`
	Email             string         `json:"email" db:"email"`
	EmergencyContact  string         `json:"emergency_contact" db:"emergency_contact"`
	HospitalLocation  string         `json:"hospital_location" db:"hospital_location"`
	BMI               float64        `json:"bmi" db:"bmi"`
	SmokerStatus      bool           `json:"smoker_status" db:"smoker_status"`
	AlcoholUse        bool           `json:"alcohol_use" db:"alcohol_use"`
	ChronicConditions pq.StringArray `json:"chronic_conditions" db:"chronic_conditions"`
	RegistrationDate  Date           `json:"registration_date" db:"registration_date"`
	InsuranceType     string         `json:"insurance_type" db:"insurance_type"`
	Timestamps
}

type CreatePatientRequest struct {
	PatientID         string   `json:"patient_id" binding:"required"`
	FullName          string   `json:"full_name" binding:"required,min=2,max=100"`
	Age               *int     `json:"age" binding:"required,min=0,max=150"`
	Gender            string   `json:"gender" binding:"required,oneof=Male Female Other"`
	BloodGroup        string   `json:"blood_group" binding:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	PhoneNumber       string   `json:"phone_number" binding:"required"`
	Email             string   `json:"email" binding:"required,email"`
	EmergencyContact  string   `json:"emergency_contact" binding:"required"`
	HospitalLocation  string   `json:"hospital_location" binding:"required"`
	BMI               *float64 `json:"bmi" binding:"required,min=0"`
	SmokerStatus      *bool    `json:"smoker_status" binding:"required"`
	AlcoholUse        *bool    `json:"alcohol_use" binding:"required"`
	ChronicConditions []string `json:"chronic_conditions"`
	RegistrationDate  Date     `json:"registration_date"`
	InsuranceType     string   `json:"insurance_type" binding:"required"`
}

func (r *CreatePatientRequest) ToPatient() *Patient {
	p := &Patient{
		PatientID:         r.PatientID,
		FullName:          r.FullName,
		Gender:            r.Gender,
		BloodGroup:        r.BloodGroup,
		PhoneNumber:       r.PhoneNumber,
		Email:             r.Email,
		EmergencyContact:  r.EmergencyContact,
		HospitalLocation:  r.HospitalLocation,
		ChronicConditions: pq.StringArray(r.ChronicConditions),
		RegistrationDate:  r.RegistrationDate,
		InsuranceType:     r.InsuranceType,
	}
	if r.Age != nil {
		p.Age = *r.Age
	}
	if r.BMI != nil {
		p.BMI = *r.BMI
	}
	if r.SmokerStatus != nil {
		p.SmokerStatus = *r.SmokerStatus
	}
	if r.AlcoholUse != nil {
		p.AlcoholUse = *r.AlcoholUse
	}
	return p
}

// UpdatePatientRequest patches every field except patient_id.
type UpdatePatientRequest struct {
	FullName          *string   `json:"full_name" binding:"omitempty,min=2,max=100"`
	Age               *int      `json:"age" binding:"omitempty,min=0,max=150"`
	Gender            *string   `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	BloodGroup        *string   `json:"blood_group" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	PhoneNumber       *string   `json:"phone_number"`
	Email             *string   `json:"email" binding:"omitempty,email"`
	EmergencyContact  *string   `json:"emergency_contact"`
	HospitalLocation  *string   `json:"hospital_location"`
	BMI               *float64  `json:"bmi" binding:"omitempty,min=0"`
	SmokerStatus      *bool     `json:"smoker_status"`
	AlcoholUse        *bool     `json:"alcohol_use"`
	ChronicConditions *[]string `json:"chronic_conditions"`
	RegistrationDate  *Date     `json:"registration_date"`
	InsuranceType     *string   `json:"insurance_type"`
}

// Apply merges the patch into p.
func (r *UpdatePatientRequest) Apply(p *Patient) {
	setString(&p.FullName, r.FullName)
	if r.Age != nil {
		p.Age = *r.Age
	}
	setString(&p.Gender, r.Gender)
	setString(&p.BloodGroup, r.BloodGroup)
	setString(&p.PhoneNumber, r.PhoneNumber)
	setString(&p.Email, r.Email)
	setString(&p.EmergencyContact, r.EmergencyContact)
	setString(&p.HospitalLocation, r.HospitalLocation)
	if r.BMI != nil {
		p.BMI = *r.BMI
	}
	if r.SmokerStatus != nil {
		p.SmokerStatus = *r.SmokerStatus
	}
	if r.AlcoholUse != nil {
		p.AlcoholUse = *r.AlcoholUse
	}
	if r.ChronicConditions != nil {
		p.ChronicConditions = pq.StringArray(*r.ChronicConditions)
	}
	if r.RegistrationDate != nil {
		p.RegistrationDate = *r.RegistrationDate
	}
	setString(&p.InsuranceType, r.InsuranceType)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
