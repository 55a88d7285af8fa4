package healthlog

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const previousLogCount = 5

type LogRequest struct {
	PatientID       string
	CurrentSymptoms string
	MedicalHistory  string
	Notes           string
}

type Service struct {
	repo     Repository
	provider InsightProvider
	log      zerolog.Logger
}

func NewService(repo Repository, provider InsightProvider, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		log:      log.With().Str("component", "healthlog_service").Logger(),
	}
}

// Log records a symptom entry with AI-generated insights. The previous
// entries feed the prompt; a provider failure aborts before any insert so
// no incomplete record is stored.
func (s *Service) Log(ctx context.Context, req LogRequest) (*LogResult, error) {
	if req.CurrentSymptoms == "" {
		return nil, ErrMissingSymptoms
	}
	if req.PatientID == "" {
		return nil, ErrMissingPatientID
	}

	previous, err := s.repo.Recent(ctx, req.PatientID, previousLogCount)
	if err != nil {
		return nil, fmt.Errorf("load previous logs: %w", err)
	}

	prompt := buildPrompt(req, previous)

	raw, err := s.provider.GenerateInsights(ctx, prompt)
	if err != nil {
		s.log.Error().Err(err).Str("patient_id", req.PatientID).
			Msg("insight generation failed, nothing persisted")
		return nil, err
	}

	insights := sanitizeInsights(raw)

	entry := HealthLog{
		PatientID:         req.PatientID,
		CurrentSymptoms:   req.CurrentSymptoms,
		MedicalHistory:    req.MedicalHistory,
		Notes:             req.Notes,
		GeneratedInsights: insights,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("persist health log: %w", err)
	}

	return &LogResult{Insights: insights, PreviousLogs: previous}, nil
}

// History returns a patient's recent log entries, newest first.
func (s *Service) History(ctx context.Context, patientID string) ([]HealthLog, error) {
	if patientID == "" {
		return nil, ErrMissingPatientID
	}
	return s.repo.Recent(ctx, patientID, 50)
}

func buildPrompt(req LogRequest, previous []HealthLog) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a medical assistant. A user has reported the following symptoms:\n\n%s\n\n", req.CurrentSymptoms)
	fmt.Fprintf(&b, "And their medical history is:\n%s\n\n", req.MedicalHistory)
	fmt.Fprintf(&b, "Additional notes: %s\n\n", req.Notes)

	b.WriteString("Previous symptoms (if any):\n")
	if len(previous) == 0 {
		b.WriteString("No previous symptoms recorded")
	} else {
		for _, l := range previous {
			fmt.Fprintf(&b, "- %s (%s)\n", l.CurrentSymptoms, l.CreatedAt.Format(time.DateOnly))
		}
	}

	b.WriteString("\n\nBased on this, provide the following:\n" +
		"1. Possible Conditions (short and likely)\n" +
		"2. Risk Level (if any, brief)\n" +
		"3. Suggestions (like dietary/lifestyle)\n\n" +
		"Please reply in JSON format with keys: possible_conditions, risk_level, suggestions.")

	return b.String()
}

var (
	specialChars = regexp.MustCompile(`[^\w\s.,:;!?()\-]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// sanitizeInsights strips markdown and stray characters from the model
// output so clients get plain readable text.
func sanitizeInsights(text string) string {
	cleaned := strings.NewReplacer(
		"**", "",
		"*", "",
		"```json", "",
		"```", "",
	).Replace(text)

	cleaned = specialChars.ReplaceAllString(cleaned, " ")
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")

	return strings.TrimSpace(cleaned)
}
