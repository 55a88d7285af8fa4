package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/medinex/telehealth-backend/internal/appointment"
	"github.com/medinex/telehealth-backend/internal/doctor"
	"github.com/medinex/telehealth-backend/internal/healthlog"
	"github.com/medinex/telehealth-backend/internal/otp"
	"github.com/medinex/telehealth-backend/internal/patient"
)

type RouterConfig struct {
	Appointments *appointment.Service
	Doctors      *doctor.Service
	Patients     *patient.Service
	HealthLogs   *healthlog.Service
	OTP          *otp.Service
	WS           *WSHandler
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Logger       zerolog.Logger
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Appointments
	r.Post("/appointments", bookAppointmentHandler(cfg.Appointments))
	r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Appointments))
	r.Get("/appointments/slots", availableSlotsHandler(cfg.Appointments))
	r.Get("/doctors/{doctorId}/appointments", listDoctorAppointmentsHandler(cfg.Appointments))
	r.Get("/patients/{patientId}/appointments", listPatientAppointmentsHandler(cfg.Appointments))

	// Doctors
	r.Post("/doctors", registerDoctorHandler(cfg.Doctors))
	r.Post("/doctors/login", loginDoctorHandler(cfg.Doctors))
	r.Post("/doctors/password", setDoctorPasswordHandler(cfg.Doctors))
	r.Get("/doctors", listApprovedDoctorsHandler(cfg.Doctors))
	r.Get("/doctors/{doctorId}", getDoctorHandler(cfg.Doctors))
	r.Put("/doctors/{doctorId}", updateDoctorHandler(cfg.Doctors))
	r.Get("/doctors/{doctorId}/patients", doctorPatientsHandler(cfg.Patients))

	// Patients
	r.Post("/patients", registerPatientHandler(cfg.Patients))
	r.Post("/patients/login", loginPatientHandler(cfg.Patients))
	r.Get("/patients/{patientId}", getPatientHandler(cfg.Patients))
	r.Put("/patients/{patientId}", updatePatientHandler(cfg.Patients))

	// Health logs
	r.Post("/health-logs", logSymptomsHandler(cfg.HealthLogs))
	r.Get("/patients/{patientId}/health-logs", healthLogHistoryHandler(cfg.HealthLogs))

	// OTP
	r.Post("/otp/send", sendOTPHandler(cfg.OTP))
	r.Post("/otp/verify", verifyOTPHandler(cfg.OTP))

	// Real-time connection workflow
	r.Handle("/ws", cfg.WS)

	return r
}
