package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/scoring"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const surveyColumns = `id, consent, COALESCE(screening_01, ''), COALESCE(role, ''),
	COALESCE(experience, ''), phases, dual_role,
	COALESCE(project_type, ''), COALESCE(project_location, ''), COALESCE(project_payment, ''),
	COALESCE(project_status, ''), COALESCE(project_phase, ''),
	answers, results,
	COALESCE(respondent_name, ''), COALESCE(respondent_email, ''), COALESCE(additional_notes, ''),
	is_submitted, created_at, updated_at`

func (s *PostgresStore) CreateSurvey(ctx context.Context, sv *Survey) error {
	answersJSON, resultsJSON, err := encodeSurvey(sv)
	if err != nil {
		return err
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO surveys (consent, screening_01, role, experience, phases, dual_role,
			project_type, project_location, project_payment, project_status, project_phase,
			answers, results,
			respondent_name, respondent_email, additional_notes, is_submitted)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, $6,
			NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''),
			$12, $13,
			NULLIF($14, ''), NULLIF($15, ''), NULLIF($16, ''), $17)
		RETURNING id, created_at, updated_at`,
		sv.Consent, sv.Screening, sv.Role, sv.Experience, phases(sv), sv.DualRole,
		sv.ProjectType, sv.ProjectLocation, sv.ProjectPayment, sv.ProjectStatus, sv.ProjectPhase,
		answersJSON, resultsJSON,
		sv.RespondentName, sv.RespondentEmail, sv.AdditionalNotes, sv.IsSubmitted,
	).Scan(&sv.ID, &sv.CreatedAt, &sv.UpdatedAt)
}

func (s *PostgresStore) UpdateSurvey(ctx context.Context, sv *Survey) error {
	answersJSON, resultsJSON, err := encodeSurvey(sv)
	if err != nil {
		return err
	}
	err = s.pool.QueryRow(ctx, `
		UPDATE surveys SET
			consent = $2, screening_01 = NULLIF($3, ''), role = NULLIF($4, ''),
			experience = NULLIF($5, ''), phases = $6, dual_role = $7,
			project_type = NULLIF($8, ''), project_location = NULLIF($9, ''),
			project_payment = NULLIF($10, ''), project_status = NULLIF($11, ''),
			project_phase = NULLIF($12, ''),
			answers = $13, results = $14,
			respondent_name = NULLIF($15, ''), respondent_email = NULLIF($16, ''),
			additional_notes = NULLIF($17, ''), is_submitted = $18,
			updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		sv.ID, sv.Consent, sv.Screening, sv.Role,
		sv.Experience, phases(sv), sv.DualRole,
		sv.ProjectType, sv.ProjectLocation,
		sv.ProjectPayment, sv.ProjectStatus,
		sv.ProjectPhase,
		answersJSON, resultsJSON,
		sv.RespondentName, sv.RespondentEmail,
		sv.AdditionalNotes, sv.IsSubmitted,
	).Scan(&sv.CreatedAt, &sv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("update %s: %w", sv.ID, ErrNotFound)
	}
	return err
}

func (s *PostgresStore) GetSurvey(ctx context.Context, id uuid.UUID) (*Survey, error) {
	sv := &Survey{}
	var answersJSON, resultsJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT `+surveyColumns+`
		FROM surveys WHERE id = $1`, id,
	).Scan(
		&sv.ID, &sv.Consent, &sv.Screening, &sv.Role,
		&sv.Experience, &sv.Phases, &sv.DualRole,
		&sv.ProjectType, &sv.ProjectLocation, &sv.ProjectPayment,
		&sv.ProjectStatus, &sv.ProjectPhase,
		&answersJSON, &resultsJSON,
		&sv.RespondentName, &sv.RespondentEmail, &sv.AdditionalNotes,
		&sv.IsSubmitted, &sv.CreatedAt, &sv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := decodeSurvey(sv, answersJSON, resultsJSON); err != nil {
		return nil, fmt.Errorf("decode survey %s: %w", id, err)
	}
	return sv, nil
}

func (s *PostgresStore) ListSurveys(ctx context.Context, filter SurveyFilter) ([]*SurveySummary, error) {
	query := `SELECT id, COALESCE(respondent_name, ''), COALESCE(respondent_email, ''),
		COALESCE(role, ''), is_submitted, created_at, updated_at
		FROM surveys WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Submitted != nil {
		n++
		query += fmt.Sprintf(" AND is_submitted = $%d", n)
		args = append(args, *filter.Submitted)
	}

	query += " ORDER BY created_at DESC"

	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, filter.limit())

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SurveySummary
	for rows.Next() {
		sm := &SurveySummary{}
		if err := rows.Scan(
			&sm.ID, &sm.RespondentName, &sm.RespondentEmail,
			&sm.Role, &sm.IsSubmitted, &sm.CreatedAt, &sm.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func phases(sv *Survey) []string {
	if sv.Phases == nil {
		return []string{}
	}
	return sv.Phases
}

// encodeSurvey renders the JSONB columns. A survey without results stores
// SQL NULL rather than the JSON literal null.
func encodeSurvey(sv *Survey) (answers, results []byte, err error) {
	answers, err = json.Marshal(sv.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("encode answers: %w", err)
	}
	if sv.Results != nil {
		results, err = json.Marshal(sv.Results)
		if err != nil {
			return nil, nil, fmt.Errorf("encode results: %w", err)
		}
	}
	return answers, results, nil
}

func decodeSurvey(sv *Survey, answers, results []byte) error {
	if len(answers) > 0 {
		dualRole := sv.DualRole
		if err := json.Unmarshal(answers, &sv.Input); err != nil {
			return fmt.Errorf("answers: %w", err)
		}
		// The column is authoritative for the flag.
		sv.DualRole = dualRole
	}
	if len(results) > 0 {
		sv.Results = &scoring.Result{}
		if err := json.Unmarshal(results, sv.Results); err != nil {
			return fmt.Errorf("results: %w", err)
		}
	}
	return nil
}
