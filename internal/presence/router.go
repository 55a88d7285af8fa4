package presence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medinex/telehealth-backend/internal/gateway"
)

const (
	ActionRegister           = "register"
	ActionQRScan             = "qr_scan"
	ActionConnectionResponse = "connection_response"
)

// PatientStore is the slice of the patient service the router needs when a
// doctor accepts a connection request.
type PatientStore interface {
	AssignDoctor(ctx context.Context, patientID, doctorID string) error
}

// Result is the structured outcome of a dispatched frame. Handlers never
// return bare strings; the body is always a JSON-serializable object.
type Result struct {
	Status int            `json:"status"`
	Body   map[string]any `json:"body"`
}

func okResult(message string, extra map[string]any) Result {
	body := map[string]any{"status": "ok", "message": message}
	for k, v := range extra {
		body[k] = v
	}
	return Result{Status: 200, Body: body}
}

func errResult(status int, code, message string) Result {
	return Result{Status: status, Body: map[string]any{
		"status":  "error",
		"error":   code,
		"message": message,
	}}
}

type frame struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// Router dispatches inbound websocket frames to the register, qr_scan and
// connection_response handlers. Identity resolution is two-tier: the
// process-local cache first, the persisted directory on a miss. Directory
// outages degrade routing instead of failing it.
type Router struct {
	cache     *IdentityCache
	directory Directory
	gw        gateway.Client
	patients  PatientStore
	log       zerolog.Logger
}

func NewRouter(cache *IdentityCache, directory Directory, gw gateway.Client, patients PatientStore, log zerolog.Logger) *Router {
	return &Router{
		cache:     cache,
		directory: directory,
		gw:        gw,
		patients:  patients,
		log:       log.With().Str("component", "presence_router").Logger(),
	}
}

// Dispatch parses one inbound frame and runs exactly one action handler.
// Malformed frames and unknown actions come back as client errors, never
// as panics or opaque failures.
func (r *Router) Dispatch(ctx context.Context, connectionID string, raw []byte) Result {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return errResult(400, "malformed_frame", "frame must be a JSON object with an action field")
	}
	if f.Action == "" {
		return errResult(400, "missing_action", "action is required")
	}
	if len(f.Data) == 0 {
		f.Data = json.RawMessage(`{}`)
	}

	switch f.Action {
	case ActionRegister:
		return r.handleRegister(ctx, connectionID, f.Data)
	case ActionQRScan:
		return r.handleQRScan(ctx, connectionID, f.Data)
	case ActionConnectionResponse:
		return r.handleConnectionResponse(ctx, connectionID, f.Data)
	default:
		return errResult(400, "unknown_action", fmt.Sprintf("unknown action %q", f.Action))
	}
}

type registerData struct {
	UserID string `json:"userId"`
}

func (r *Router) handleRegister(ctx context.Context, connectionID string, data json.RawMessage) Result {
	var d registerData
	if err := json.Unmarshal(data, &d); err != nil {
		return errResult(400, "invalid_data", "could not parse register data")
	}
	if d.UserID == "" {
		return errResult(400, "missing_user_id", "userId is required")
	}

	r.cache.Set(d.UserID, connectionID)

	// Directory write is best-effort: an unreachable store must not stop
	// registration, the cache keeps routing alive within this process.
	err := r.directory.Upsert(ctx, connectionID, UpsertFields{
		UserID:      d.UserID,
		Status:      StatusConnected,
		ConnectedAt: time.Now(),
	})
	if err != nil {
		r.log.Warn().Err(err).
			Str("user_id", d.UserID).
			Str("connection_id", connectionID).
			Msg("directory upsert failed during register, continuing on cache")
	}

	confirmation := RegistrationResponse{
		Type:      "registration_response",
		Status:    "ok",
		Message:   "user registered",
		UserID:    d.UserID,
		Timestamp: time.Now().UTC(),
	}

	if err := r.gw.PostToConnection(ctx, connectionID, confirmation); err != nil {
		if errors.Is(err, gateway.ErrStaleConnection) {
			// The connection died under us; the registration is void.
			r.cache.DeleteUser(d.UserID)
			r.cache.DeleteConnection(connectionID)
			r.log.Warn().
				Str("user_id", d.UserID).
				Str("connection_id", connectionID).
				Msg("registration confirmation hit a stale connection")
			return errResult(404, "stale_connection", "connection is no longer live")
		}
		return errResult(502, "delivery_failed", "could not deliver registration confirmation")
	}

	return okResult("user registered", map[string]any{"userId": d.UserID})
}

type qrScanData struct {
	DoctorID       string `json:"doctorId"`
	DoctorName     string `json:"doctorName"`
	Specialization string `json:"specialization"`
	QRCode         string `json:"qrCode"`
}

type qrPayload struct {
	PatientID string `json:"patientId"`
}

func (r *Router) handleQRScan(ctx context.Context, connectionID string, data json.RawMessage) Result {
	var d qrScanData
	if err := json.Unmarshal(data, &d); err != nil {
		return errResult(400, "invalid_data", "could not parse qr_scan data")
	}
	if d.DoctorID == "" {
		return errResult(400, "missing_doctor_id", "doctorId is required")
	}
	if d.QRCode == "" {
		return errResult(400, "missing_qr_code", "qrCode is required")
	}

	var qr qrPayload
	if err := json.Unmarshal([]byte(d.QRCode), &qr); err != nil || qr.PatientID == "" {
		return errResult(400, "invalid_qr_code", "qrCode must contain a patientId")
	}

	patientConn, found := r.resolve(ctx, qr.PatientID)
	if !found {
		return errResult(404, "patient_not_connected", "patient is not connected")
	}

	notification := DoctorRequest{
		Type:           "doctor_request",
		DoctorID:       d.DoctorID,
		DoctorName:     d.DoctorName,
		Specialization: d.Specialization,
	}

	if err := r.gw.PostToConnection(ctx, patientConn, notification); err != nil {
		if errors.Is(err, gateway.ErrStaleConnection) {
			r.purge(ctx, qr.PatientID, patientConn)
			return errResult(404, "patient_not_connected", "patient is not connected")
		}
		return errResult(502, "delivery_failed", "could not deliver doctor request")
	}

	return okResult("doctor request sent", nil)
}

type connectionResponseData struct {
	DoctorID  string `json:"doctorId"`
	PatientID string `json:"patientId"`
	Response  string `json:"response"`
}

func (r *Router) handleConnectionResponse(ctx context.Context, connectionID string, data json.RawMessage) Result {
	var d connectionResponseData
	if err := json.Unmarshal(data, &d); err != nil {
		return errResult(400, "invalid_data", "could not parse connection_response data")
	}
	if d.DoctorID == "" || d.PatientID == "" {
		return errResult(400, "missing_fields", "doctorId and patientId are required")
	}
	if d.Response == "" {
		return errResult(400, "missing_response", "response is required")
	}

	accepted := d.Response == "accepted"

	// Persist the association before the notification: the doctor must end
	// up on the patient record even when delivery fails. A write failure
	// here is logged, not surfaced, since the notification path is primary.
	if accepted {
		if err := r.patients.AssignDoctor(ctx, d.PatientID, d.DoctorID); err != nil {
			r.log.Error().Err(err).
				Str("patient_id", d.PatientID).
				Str("doctor_id", d.DoctorID).
				Msg("failed to associate doctor with patient")
		}
	}

	doctorConn, found := r.resolve(ctx, d.DoctorID)
	if !found {
		return errResult(404, "doctor_not_connected", "doctor is not connected")
	}

	notification := PatientResponse{
		Type:      "patient_response",
		Accepted:  accepted,
		PatientID: d.PatientID,
	}

	if err := r.gw.PostToConnection(ctx, doctorConn, notification); err != nil {
		if errors.Is(err, gateway.ErrStaleConnection) {
			r.purge(ctx, d.DoctorID, doctorConn)
			return errResult(404, "doctor_not_connected", "doctor is not connected")
		}
		return errResult(502, "delivery_failed", "could not deliver patient response")
	}

	return okResult("response sent", nil)
}

// resolve maps a user to their live connection id, cache first, directory
// on a miss. Cache hits populate nothing; directory hits warm the cache.
// A directory outage degrades to cache-only resolution.
func (r *Router) resolve(ctx context.Context, userID string) (string, bool) {
	if connID, found := r.cache.Get(userID); found {
		return connID, true
	}

	rec, err := r.directory.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			r.log.Warn().Err(err).Str("user_id", userID).
				Msg("directory unavailable during resolution, degrading to cache only")
		}
		return "", false
	}
	if rec.Status == StatusDisconnected {
		return "", false
	}

	r.cache.Set(userID, rec.ConnectionID)
	return rec.ConnectionID, true
}

// purge drops every trace of a connection that the gateway reported stale:
// both cache directions and the persisted directory row.
func (r *Router) purge(ctx context.Context, userID, connectionID string) {
	r.cache.DeleteUser(userID)
	r.cache.DeleteConnection(connectionID)

	if err := r.directory.Remove(ctx, connectionID); err != nil {
		r.log.Warn().Err(err).
			Str("connection_id", connectionID).
			Msg("failed to remove stale connection from directory")
	}
}
