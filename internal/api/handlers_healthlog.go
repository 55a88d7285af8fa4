package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medinex/telehealth-backend/internal/healthlog"
)

func logSymptomsHandler(svc *healthlog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LogSymptomsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		result, err := svc.Log(r.Context(), healthlog.LogRequest{
			PatientID:       req.PatientID,
			CurrentSymptoms: req.CurrentSymptoms,
			MedicalHistory:  req.MedicalHistory,
			Notes:           req.Notes,
		})
		if err != nil {
			switch {
			case errors.Is(err, healthlog.ErrMissingSymptoms),
				errors.Is(err, healthlog.ErrMissingPatientID):
				writeError(w, http.StatusBadRequest, "missing_fields", err.Error())
			case errors.Is(err, healthlog.ErrInsightProvider):
				writeError(w, http.StatusBadGateway, "insight_provider_failed", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func healthLogHistoryHandler(svc *healthlog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := svc.History(r.Context(), chi.URLParam(r, "patientId"))
		if err != nil {
			if errors.Is(err, healthlog.ErrMissingPatientID) {
				writeError(w, http.StatusBadRequest, "missing_patient_id", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"response": true,
			"logs":     logs,
		})
	}
}
