package patient

import "time"

type Patient struct {
	PatientID         string    `json:"patientId"`
	Name              string    `json:"name"`
	DOB               string    `json:"dob,omitempty"`
	Gender            string    `json:"gender,omitempty"`
	BloodGroup        string    `json:"bloodGroup,omitempty"`
	PhoneNumber       string    `json:"phoneNumber"`
	Address           string    `json:"address,omitempty"`
	MedicalConditions string    `json:"medicalConditions,omitempty"`
	CurrentMedication string    `json:"currentMedications,omitempty"`
	EmergencyDetails  string    `json:"emergencyDetails,omitempty"`
	DoctorID          string    `json:"doctorId,omitempty"` // set once a doctor accepts the connection
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
