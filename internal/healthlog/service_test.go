package healthlog

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogRepo struct {
	entries []HealthLog
}

func (r *fakeLogRepo) Insert(_ context.Context, entry HealthLog) error {
	entry.CreatedAt = time.Now()
	r.entries = append([]HealthLog{entry}, r.entries...)
	return nil
}

func (r *fakeLogRepo) Recent(_ context.Context, patientID string, limit int) ([]HealthLog, error) {
	var out []HealthLog
	for _, e := range r.entries {
		if e.PatientID != patientID {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeProvider struct {
	response string
	err      error
	prompts  []string
}

func (p *fakeProvider) GenerateInsights(_ context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

func validLogRequest() LogRequest {
	return LogRequest{
		PatientID:       "PAT-1",
		CurrentSymptoms: "headache and fever",
		MedicalHistory:  "none",
		Notes:           "started yesterday",
	}
}

func TestLogPersistsEntryWithInsights(t *testing.T) {
	repo := &fakeLogRepo{}
	provider := &fakeProvider{response: "rest and hydration"}
	svc := NewService(repo, provider, zerolog.Nop())

	result, err := svc.Log(context.Background(), validLogRequest())
	require.NoError(t, err)
	assert.Equal(t, "rest and hydration", result.Insights)
	assert.Empty(t, result.PreviousLogs)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, "headache and fever", repo.entries[0].CurrentSymptoms)
	assert.Equal(t, "rest and hydration", repo.entries[0].GeneratedInsights)
}

func TestLogValidation(t *testing.T) {
	svc := NewService(&fakeLogRepo{}, &fakeProvider{}, zerolog.Nop())
	ctx := context.Background()

	req := validLogRequest()
	req.CurrentSymptoms = ""
	_, err := svc.Log(ctx, req)
	assert.ErrorIs(t, err, ErrMissingSymptoms)

	req = validLogRequest()
	req.PatientID = ""
	_, err = svc.Log(ctx, req)
	assert.ErrorIs(t, err, ErrMissingPatientID)
}

func TestLogProviderFailurePersistsNothing(t *testing.T) {
	repo := &fakeLogRepo{}
	provider := &fakeProvider{err: fmt.Errorf("%w: upstream 500", ErrInsightProvider)}
	svc := NewService(repo, provider, zerolog.Nop())

	_, err := svc.Log(context.Background(), validLogRequest())
	assert.ErrorIs(t, err, ErrInsightProvider)
	assert.Empty(t, repo.entries)
}

func TestLogFeedsPreviousEntriesToPrompt(t *testing.T) {
	repo := &fakeLogRepo{}
	provider := &fakeProvider{response: "insight"}
	svc := NewService(repo, provider, zerolog.Nop())
	ctx := context.Background()

	first := validLogRequest()
	first.CurrentSymptoms = "sore throat"
	_, err := svc.Log(ctx, first)
	require.NoError(t, err)

	_, err = svc.Log(ctx, validLogRequest())
	require.NoError(t, err)

	require.Len(t, provider.prompts, 2)
	assert.Contains(t, provider.prompts[0], "No previous symptoms recorded")
	assert.Contains(t, provider.prompts[1], "sore throat")
}

func TestLogResultIncludesPreviousEntries(t *testing.T) {
	repo := &fakeLogRepo{}
	provider := &fakeProvider{response: "insight"}
	svc := NewService(repo, provider, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Log(ctx, validLogRequest())
	require.NoError(t, err)

	result, err := svc.Log(ctx, validLogRequest())
	require.NoError(t, err)
	assert.Len(t, result.PreviousLogs, 1)
}

func TestHistoryRequiresPatientID(t *testing.T) {
	svc := NewService(&fakeLogRepo{}, &fakeProvider{}, zerolog.Nop())

	_, err := svc.History(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingPatientID)
}

func TestSanitizeInsights(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"markdown bold and fences",
			"```json\n{**risk**: *low*}\n```",
			"risk: low",
		},
		{
			"special characters",
			"possible@conditions: cold & flu",
			"possible conditions: cold flu",
		},
		{
			"whitespace collapse",
			"rest   and\n\n  hydration",
			"rest and hydration",
		},
		{
			"plain text untouched",
			"Drink water, rest well.",
			"Drink water, rest well.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeInsights(tt.in))
		})
	}
}

func TestBuildPromptStructure(t *testing.T) {
	prompt := buildPrompt(validLogRequest(), []HealthLog{
		{CurrentSymptoms: "cough", CreatedAt: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
	})

	assert.True(t, strings.Contains(prompt, "headache and fever"))
	assert.True(t, strings.Contains(prompt, "- cough (2026-08-20)"))
	assert.True(t, strings.Contains(prompt, "possible_conditions, risk_level, suggestions"))
}
