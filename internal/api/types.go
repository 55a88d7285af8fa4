package api

import (
	"time"

	"github.com/google/uuid"
)

type BookAppointmentRequest struct {
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
	Date      string `json:"date"` // YYYY-MM-DD
	Time      string `json:"time"` // HH:mm
	Reason    string `json:"reason"`
}

type BookAppointmentResponse struct {
	Response      bool      `json:"response"`
	Message       string    `json:"message"`
	AppointmentID uuid.UUID `json:"appointmentId"`
}

type CancelAppointmentRequest struct {
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelledBy"`
}

type AppointmentResponse struct {
	ID                 uuid.UUID  `json:"id"`
	PatientID          string     `json:"patientId"`
	DoctorID           string     `json:"doctorId"`
	Date               string     `json:"date"`
	Time               string     `json:"time"`
	Reason             string     `json:"reason"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"createdAt"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledBy        *string    `json:"cancelledBy,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
}

type AvailableSlotsResponse struct {
	Response       bool     `json:"response"`
	AvailableSlots []string `json:"availableSlots"`
}

type RegisterResponse struct {
	Response bool   `json:"response"`
	Message  string `json:"message"`
	ID       string `json:"id"`
}

type PatientLoginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type DoctorLoginRequest struct {
	DoctorID string `json:"doctorId"`
	Password string `json:"password"`
}

type SetPasswordRequest struct {
	DoctorID string `json:"doctorId"`
	Password string `json:"password"`
}

type LogSymptomsRequest struct {
	PatientID       string `json:"patientId"`
	CurrentSymptoms string `json:"currentSymptoms"`
	MedicalHistory  string `json:"medicalHistory"`
	Notes           string `json:"notes"`
}

type SendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Code        string `json:"code"`
}
