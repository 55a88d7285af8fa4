package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medinex/telehealth-backend/internal/otp"
)

func sendOTPHandler(svc *otp.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SendOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := svc.Send(r.Context(), req.PhoneNumber); err != nil {
			switch {
			case errors.Is(err, otp.ErrMissingPhone):
				writeError(w, http.StatusBadRequest, "missing_phone", err.Error())
			case errors.Is(err, otp.ErrSenderUnavailable):
				writeError(w, http.StatusBadGateway, "sender_unavailable", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"response": true,
			"message":  "OTP sent",
		})
	}
}

func verifyOTPHandler(svc *otp.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := svc.Verify(r.Context(), req.PhoneNumber, req.Code); err != nil {
			switch {
			case errors.Is(err, otp.ErrMissingPhone):
				writeError(w, http.StatusBadRequest, "missing_phone", err.Error())
			case errors.Is(err, otp.ErrCodeExpired):
				writeError(w, http.StatusGone, "code_expired", err.Error())
			case errors.Is(err, otp.ErrCodeMismatch):
				writeError(w, http.StatusUnauthorized, "code_mismatch", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"response": true,
			"message":  "OTP verified",
		})
	}
}
