package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medinex/telehealth-backend/internal/patient"
)

func registerPatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p patient.Patient
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		id, err := svc.Register(r.Context(), p)
		if err != nil {
			switch {
			case errors.Is(err, patient.ErrMissingFields):
				writeError(w, http.StatusBadRequest, "missing_fields", err.Error())
			case errors.Is(err, patient.ErrPatientExists):
				writeError(w, http.StatusBadRequest, "patient_exists", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusCreated, RegisterResponse{
			Response: true,
			Message:  "Patient registered successfully",
			ID:       id,
		})
	}
}

func loginPatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PatientLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		p, err := svc.Login(r.Context(), req.PhoneNumber)
		if err != nil {
			switch {
			case errors.Is(err, patient.ErrMissingFields):
				writeError(w, http.StatusBadRequest, "missing_phone", "phone number is required")
			case errors.Is(err, patient.ErrPatientNotFound):
				// Not an error from the client's viewpoint: proceed to registration.
				writeError(w, http.StatusNotFound, "patient_not_found", "patient not found, proceed to registration")
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"response": true,
			"message":  "Login successful",
			"userData": p,
		})
	}
}

func getPatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), chi.URLParam(r, "patientId"))
		if err != nil {
			if errors.Is(err, patient.ErrPatientNotFound) {
				writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, p)
	}
}

func updatePatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p patient.Patient
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := svc.Update(r.Context(), chi.URLParam(r, "patientId"), p); err != nil {
			if errors.Is(err, patient.ErrPatientNotFound) {
				writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"response": true,
			"message":  "Patient updated successfully",
		})
	}
}

func doctorPatientsHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patients, err := svc.ListByDoctor(r.Context(), chi.URLParam(r, "doctorId"))
		if err != nil {
			if errors.Is(err, patient.ErrMissingFields) {
				writeError(w, http.StatusBadRequest, "missing_doctor_id", "doctorId is required")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"response": true,
			"data":     patients,
		})
	}
}
