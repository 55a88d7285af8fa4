package doctor

import "time"

type Doctor struct {
	DoctorID       string    `json:"doctorId"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization,omitempty"`
	Qualification  string    `json:"qualification,omitempty"`
	PhoneNumber    string    `json:"phoneNumber,omitempty"`
	Email          string    `json:"email,omitempty"`
	HospitalName   string    `json:"hospitalName,omitempty"`
	IsApproved     bool      `json:"isApproved"`
	PasswordHash   string    `json:"-"` // never serialized
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
