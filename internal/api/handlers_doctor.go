package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medinex/telehealth-backend/internal/doctor"
)

func registerDoctorHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d doctor.Doctor
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		id, err := svc.Register(r.Context(), d)
		if err != nil {
			switch {
			case errors.Is(err, doctor.ErrMissingFields):
				writeError(w, http.StatusBadRequest, "missing_fields", err.Error())
			case errors.Is(err, doctor.ErrDoctorExists):
				writeError(w, http.StatusBadRequest, "doctor_exists", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusCreated, RegisterResponse{
			Response: true,
			Message:  "Doctor registered, pending approval",
			ID:       id,
		})
	}
}

func loginDoctorHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DoctorLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		d, err := svc.Login(r.Context(), req.DoctorID, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, doctor.ErrMissingFields):
				writeError(w, http.StatusBadRequest, "missing_fields", err.Error())
			case errors.Is(err, doctor.ErrDoctorNotFound):
				writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
			case errors.Is(err, doctor.ErrNotApproved):
				writeError(w, http.StatusForbidden, "doctor_not_approved", err.Error())
			case errors.Is(err, doctor.ErrInvalidCredential):
				writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"response": true,
			"message":  "Login successful",
			"userData": d,
		})
	}
}

func setDoctorPasswordHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := svc.SetPassword(r.Context(), req.DoctorID, req.Password); err != nil {
			switch {
			case errors.Is(err, doctor.ErrMissingFields):
				writeError(w, http.StatusBadRequest, "missing_fields", err.Error())
			case errors.Is(err, doctor.ErrDoctorNotFound):
				writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"response": true,
			"message":  "Password set successfully",
		})
	}
}

func getDoctorHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.Get(r.Context(), chi.URLParam(r, "doctorId"))
		if err != nil {
			if errors.Is(err, doctor.ErrDoctorNotFound) {
				writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, d)
	}
}

func updateDoctorHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d doctor.Doctor
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := svc.Update(r.Context(), chi.URLParam(r, "doctorId"), d); err != nil {
			if errors.Is(err, doctor.ErrDoctorNotFound) {
				writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"response": true,
			"message":  "Doctor updated successfully",
		})
	}
}

func listApprovedDoctorsHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.ListApproved(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"response": true,
			"message":  "Approved doctors fetched successfully",
			"doctors":  doctors,
		})
	}
}
