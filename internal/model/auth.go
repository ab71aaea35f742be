package model

// Portal is the front-end a user signs in through.
type Portal string

const (
	PortalAdmin  Portal = "admin"
	PortalDoctor Portal = "doctor"
)

type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
	Portal   Portal `json:"portal"`
}

// UserInfo is the public view of an authenticated account.
type UserInfo struct {
	DoctorID         string `json:"doctor_id"`
	DoctorName       string `json:"doctor_name"`
	UserID           string `json:"user_id"`
	DoctorSpeciality string `json:"doctor_speciality"`
	Role             Role   `json:"role"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID           string
	Role             Role
	DoctorID         string
	DoctorName       string
	DoctorSpeciality string
}

func (a Actor) UserInfo() UserInfo {
	return UserInfo{
		DoctorID:         a.DoctorID,
		DoctorName:       a.DoctorName,
		UserID:           a.UserID,
		DoctorSpeciality: a.DoctorSpeciality,
		Role:             a.Role,
	}
}

func (d *Doctor) UserInfo() UserInfo {
	return UserInfo{
		DoctorID:         d.DoctorID,
		DoctorName:       d.DoctorName,
		UserID:           d.UserID,
		DoctorSpeciality: d.DoctorSpeciality,
		Role:             d.Role,
	}
}
