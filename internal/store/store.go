package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/scoring"
)

// ErrNotFound is returned when no survey has the requested ID.
var ErrNotFound = errors.New("survey not found")

// Survey is one respondent's questionnaire record. The embedded Input holds
// the raw answers; Results is nil until a calculation has been run.
type Survey struct {
	ID uuid.UUID `json:"id"`

	// Respondent profile
	Consent    bool     `json:"consent"`
	Screening  string   `json:"screening_01,omitempty"`
	Role       string   `json:"role,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Phases     []string `json:"phases"`

	// Project context
	ProjectType     string `json:"project_type,omitempty"`
	ProjectLocation string `json:"project_location,omitempty"`
	ProjectPayment  string `json:"project_payment,omitempty"`
	ProjectStatus   string `json:"project_status,omitempty"`
	ProjectPhase    string `json:"project_phase,omitempty"`

	// Answers
	scoring.Input

	Results *scoring.Result `json:"results,omitempty"`

	// Contact
	RespondentName  string `json:"respondent_name,omitempty"`
	RespondentEmail string `json:"respondent_email,omitempty"`
	AdditionalNotes string `json:"additional_notes,omitempty"`

	IsSubmitted bool      `json:"is_submitted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SurveySummary is the admin listing view of a survey.
type SurveySummary struct {
	ID              uuid.UUID `json:"id"`
	RespondentName  string    `json:"respondent_name,omitempty"`
	RespondentEmail string    `json:"respondent_email,omitempty"`
	Role            string    `json:"role,omitempty"`
	IsSubmitted     bool      `json:"is_submitted"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type SurveyFilter struct {
	Submitted *bool
	Limit     int
	Offset    int
}

func (f SurveyFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return defaultListLimit
	case f.Limit > maxListLimit:
		return maxListLimit
	default:
		return f.Limit
	}
}

type Store interface {
	// CreateSurvey inserts s and fills in its ID and timestamps.
	CreateSurvey(ctx context.Context, s *Survey) error
	// UpdateSurvey overwrites the survey with s.ID, returning ErrNotFound
	// if it does not exist.
	UpdateSurvey(ctx context.Context, s *Survey) error
	GetSurvey(ctx context.Context, id uuid.UUID) (*Survey, error)
	// ListSurveys returns summaries, newest first.
	ListSurveys(ctx context.Context, filter SurveyFilter) ([]*SurveySummary, error)

	Close() error
}
