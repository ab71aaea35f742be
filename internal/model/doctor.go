package model

type Doctor struct {
	DoctorID         string `json:"doctor_id" db:"doctor_id"`
	DoctorName       string `json:"doctor_name" db:"doctor_name"`
	UserID           string `json:"user_id" db:"user_id"`
	PasswordHash     string `json:"-" db:"password_hash"`
	DoctorSpeciality string `json:"doctor_speciality" db:"doctor_speciality"`
	Role             Role   `json:"role" db:"role"`
	Timestamps
}

// IsAdmin reports whether the account may use the admin portal.
func (d *Doctor) IsAdmin() bool {
	return d.Role == RoleAdmin
}

type CreateDoctorRequest struct {
	DoctorID         string `json:"doctor_id"`
	DoctorName       string `json:"doctor_name" binding:"required,min=2,max=100"`
	UserID           string `json:"user_id" binding:"required,min=3,max=50"`
	Password         string `json:"password" binding:"required,min=6"`
	DoctorSpeciality string `json:"doctor_speciality" binding:"required"`
	Role             Role   `json:"role" binding:"omitempty,oneof=admin doctor"`
}

// UpdateDoctorRequest never touches doctor_id or user_id.
type UpdateDoctorRequest struct {
	DoctorName       *string `json:"doctor_name" binding:"omitempty,min=2,max=100"`
	DoctorSpeciality *string `json:"doctor_speciality" binding:"omitempty,min=1"`
	Role             *Role   `json:"role" binding:"omitempty,oneof=admin doctor"`
	Password         *string `json:"password" binding:"omitempty,min=6"`
}

func (r *UpdateDoctorRequest) Apply(d *Doctor) {
	setString(&d.DoctorName, r.DoctorName)
	setString(&d.DoctorSpeciality, r.DoctorSpeciality)
	if r.Role != nil {
		d.Role = *r.Role
	}
}
