package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/metrics"
	"github.com/MikeSquared-Agency/RiskAlloc/internal/scoring"
	"github.com/MikeSquared-Agency/RiskAlloc/internal/store"
)

// Mocks
type mockStore struct {
	mu      sync.Mutex
	surveys map[uuid.UUID]*store.Survey
	clock   time.Time
}

func newMockStore() *mockStore {
	return &mockStore{
		surveys: make(map[uuid.UUID]*store.Survey),
		clock:   time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (m *mockStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *mockStore) CreateSurvey(_ context.Context, s *store.Survey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.New()
	s.CreatedAt = m.tick()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	m.surveys[s.ID] = &cp
	return nil
}

func (m *mockStore) UpdateSurvey(_ context.Context, s *store.Survey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.surveys[s.ID]
	if !ok {
		return store.ErrNotFound
	}
	s.CreatedAt = old.CreatedAt
	s.UpdatedAt = m.tick()
	cp := *s
	m.surveys[s.ID] = &cp
	return nil
}

func (m *mockStore) GetSurvey(_ context.Context, id uuid.UUID) (*store.Survey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.surveys[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockStore) ListSurveys(_ context.Context, f store.SurveyFilter) ([]*store.SurveySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.SurveySummary
	for _, s := range m.surveys {
		if f.Submitted != nil && s.IsSubmitted != *f.Submitted {
			continue
		}
		out = append(out, &store.SurveySummary{
			ID: s.ID, RespondentName: s.RespondentName, Role: s.Role,
			IsSubmitted: s.IsSubmitted, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStore) Close() error { return nil }

type published struct {
	subject string
	data    interface{}
}

type mockHermes struct {
	mu     sync.Mutex
	events []published
}

func (m *mockHermes) Publish(subject string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, published{subject, data})
	return nil
}
func (m *mockHermes) Close() {}

func (m *mockHermes) subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events {
		out = append(out, e.subject)
	}
	return out
}

type testEnv struct {
	router http.Handler
	store  *mockStore
	hermes *mockHermes
}

func setupTestRouter() *testEnv {
	ms := newMockStore()
	mh := &mockHermes{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := metrics.NewRecorder(prometheus.NewRegistry())
	engine := scoring.NewEngine(logger, rec)
	router := NewRouter(ms, mh, engine, rec, RouterConfig{AdminToken: "test-token", RateLimitPerMinute: 1000}, logger)
	return &testEnv{router: router, store: ms, hermes: mh}
}

func (e *testEnv) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

const calculateBody = `{
	"consent": true,
	"role": "BU/SPV",
	"respondent_name": "Tester",
	"dual_role": false,
	"fahp_pairwise": {"R1_R2": "SLI"},
	"lcm_exposure": {"R4": 4},
	"lcm_phase_critical": {"R4": "Implementasi"},
	"pat1_data": {
		"R4": {"PAT1-01": 4, "PAT1-02": 5, "PAT1-05": 3, "PAT1-06": 4,
		       "PAT1-07": 2, "PAT1-08": 2, "PAT1-11": 3, "PAT1-12": 4},
		"R6": {"PAT1-01": 2, "PAT1-02": 2, "PAT1-03": "TT"}
	},
	"pat2_data": {
		"R4": {"PAT2-01": 4, "PAT2-02": 5, "PAT2-03": 4, "PAT2-04": 5}
	}
}`

func TestCatalog(t *testing.T) {
	env := setupTestRouter()
	w := env.do("GET", "/api/v1/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CatalogResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.Risks, 6)
	assert.Len(t, resp.Phases, 4)
	assert.Len(t, resp.Scale, 9)
	assert.Len(t, resp.Tier1Items, 12)
	assert.Len(t, resp.Tier2Items, 8)
	assert.Equal(t, "TT", resp.UnknownToken)
}

func TestSaveDraftCreatesSurvey(t *testing.T) {
	env := setupTestRouter()
	w := env.do("POST", "/api/v1/surveys", `{"role":"Publik","phases":["Transaksi"],"pat1_data":{"R1":{"PAT1-01":3}}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp SaveSurveyResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEqual(t, uuid.Nil, resp.ID)

	sv, err := env.store.GetSurvey(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Publik", sv.Role)
	assert.False(t, sv.IsSubmitted)
	assert.Nil(t, sv.Results)
	v, ok := sv.Tier1Answers["R1"]["PAT1-01"].Value()
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	assert.Equal(t, []string{"riskalloc.survey." + resp.ID.String() + ".saved"}, env.hermes.subjects())
}

func TestSaveDraftKeepsResults(t *testing.T) {
	env := setupTestRouter()
	w := env.do("POST", "/api/v1/calculate", calculateBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var calc CalculateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&calc))

	body := fmt.Sprintf(`{"id":%q,"role":"Konsultan","is_submitted":false}`, calc.SurveyID)
	w = env.do("POST", "/api/v1/surveys", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	sv, err := env.store.GetSurvey(context.Background(), calc.SurveyID)
	require.NoError(t, err)
	assert.Equal(t, "Konsultan", sv.Role)
	assert.NotNil(t, sv.Results, "draft save must not discard results")
	assert.True(t, sv.IsSubmitted, "draft save must not un-submit")
}

func TestSaveDraftErrors(t *testing.T) {
	env := setupTestRouter()

	w := env.do("POST", "/api/v1/surveys", fmt.Sprintf(`{"id":%q}`, uuid.New()))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do("POST", "/api/v1/surveys", `{"pat1_data":{"R1":{"PAT1-01":9}}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do("POST", "/api/v1/surveys", `{"pat2_data":{"R1":{"PAT1-01":3}}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do("POST", "/api/v1/surveys", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, env.store.surveys)
	assert.Empty(t, env.hermes.subjects())
}

func TestGetSurvey(t *testing.T) {
	env := setupTestRouter()

	w := env.do("GET", "/api/v1/surveys/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do("GET", "/api/v1/surveys/"+uuid.New().String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	sv := &store.Survey{Role: "EPC"}
	require.NoError(t, env.store.CreateSurvey(context.Background(), sv))
	w = env.do("GET", "/api/v1/surveys/"+sv.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)

	var got store.Survey
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, sv.ID, got.ID)
	assert.Equal(t, "EPC", got.Role)
}

func TestCalculate(t *testing.T) {
	env := setupTestRouter()
	w := env.do("POST", "/api/v1/calculate", calculateBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp CalculateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEqual(t, uuid.Nil, resp.SurveyID)
	require.NotNil(t, resp.Results)
	assert.Equal(t, "calculation completed and saved", resp.Message)

	assert.True(t, resp.Results.Weights.Consistent)
	assert.Equal(t, scoring.PartyPrivate, resp.Results.Allocations["R4"].Tier1.Party)
	assert.Equal(t, scoring.PartySubcontractor, resp.Results.Allocations["R4"].Tier2.Party)
	assert.Equal(t, scoring.PartyPublic, resp.Results.Allocations["R6"].Tier1.Party)
	assert.Equal(t, scoring.PartyNotApplicable, resp.Results.Allocations["R6"].Tier2.Party)
	assert.Equal(t, 1, resp.Results.Constructs.Tier1["R6"].UnknownCount)

	sv, err := env.store.GetSurvey(context.Background(), resp.SurveyID)
	require.NoError(t, err)
	assert.True(t, sv.IsSubmitted)
	assert.NotNil(t, sv.Results)
	assert.Equal(t, "Tester", sv.RespondentName)

	assert.Equal(t, []string{"riskalloc.survey." + resp.SurveyID.String() + ".calculated"}, env.hermes.subjects())
}

func TestCalculateHonoursSubmittedFlag(t *testing.T) {
	env := setupTestRouter()
	w := env.do("POST", "/api/v1/calculate", `{"is_submitted": false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp CalculateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	sv, err := env.store.GetSurvey(context.Background(), resp.SurveyID)
	require.NoError(t, err)
	assert.False(t, sv.IsSubmitted)
}

func TestCalculateRejectsMalformed(t *testing.T) {
	tests := map[string]string{
		"unknown label":       `{"fahp_pairwise": {"R1_R2": "XL"}}`,
		"reversed pair key":   `{"fahp_pairwise": {"R2_R1": "SLI"}}`,
		"answer out of range": `{"pat2_data": {"R1": {"PAT2-01": 6}}}`,
		"unknown item":        `{"pat1_data": {"R1": {"PAT1-13": 3}}}`,
		"unknown risk":        `{"lcm_exposure": {"R7": 3}}`,
		"unknown phase":       `{"lcm_phase_critical": {"R1": "Operasi"}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			env := setupTestRouter()
			w := env.do("POST", "/api/v1/calculate", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Empty(t, env.store.surveys)
		})
	}
}

func TestCalculateUnknownSurvey(t *testing.T) {
	env := setupTestRouter()
	w := env.do("POST", "/api/v1/calculate", fmt.Sprintf(`{"id":%q}`, uuid.New()))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func calculated(t *testing.T, env *testEnv) uuid.UUID {
	t.Helper()
	w := env.do("POST", "/api/v1/calculate", calculateBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp CalculateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.SurveyID
}

func TestExportCSV(t *testing.T) {
	env := setupTestRouter()
	id := calculated(t, env)

	w := env.do("GET", "/api/v1/surveys/"+id.String()+"/export.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "kpbu-results-2025-06-01.csv")

	records, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7)
	assert.Equal(t, csvHeader, records[0])

	r4 := records[4]
	assert.Equal(t, "R4", r4[0])
	assert.Equal(t, "4", r4[2])
	assert.Equal(t, "Implementasi", r4[3])
	assert.Equal(t, "BU/SPV", r4[4])
	assert.Equal(t, "EPC/O&M", r4[5])

	r6 := records[6]
	assert.Equal(t, "", r6[2])
	assert.Equal(t, "Publik/PDAM", r6[4])
	assert.Equal(t, "Rendah", r6[6])

	var total float64
	for _, rec := range records[1:] {
		var pct float64
		_, err := fmt.Sscanf(rec[1], "%f", &pct)
		require.NoError(t, err)
		total += pct
	}
	assert.InDelta(t, 100, total, 0.05)
}

func TestExportRequiresResults(t *testing.T) {
	env := setupTestRouter()
	sv := &store.Survey{}
	require.NoError(t, env.store.CreateSurvey(context.Background(), sv))

	w := env.do("GET", "/api/v1/surveys/"+sv.ID.String()+"/export.csv", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do("GET", "/api/v1/surveys/"+sv.ID.String()+"/export.json", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment;"))
}

func TestExplain(t *testing.T) {
	env := setupTestRouter()
	id := calculated(t, env)

	w := env.do("GET", "/api/v1/surveys/"+id.String()+"/explain", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ExplainResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Risks, 6)

	r6 := resp.Risks["R6"]
	assert.Empty(t, r6.Tier2Rules)
	var decided []string
	for _, tr := range r6.Tier1Rules {
		if tr.Decided {
			decided = append(decided, tr.Rule)
		}
	}
	assert.Equal(t, []string{"insufficient-private-control"}, decided)
	assert.True(t, r6.Tier1Rules[len(r6.Tier1Rules)-1].Matched, "fallback always matches")

	r4 := resp.Risks["R4"]
	assert.True(t, r4.Tier1Rules[0].Decided)
	assert.True(t, r4.Tier2Rules[0].Decided)
}

func TestAdminResponses(t *testing.T) {
	env := setupTestRouter()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, env.store.CreateSurvey(context.Background(), &store.Survey{RespondentName: name, IsSubmitted: name != "b"}))
	}

	w := env.do("GET", "/api/v1/admin/responses", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do("GET", "/api/v1/admin/responses", "", "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do("GET", "/api/v1/admin/responses", "", "Authorization", "Bearer test-token")
	require.Equal(t, http.StatusOK, w.Code)
	var all []store.SurveySummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&all))
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].RespondentName)
	assert.Equal(t, "a", all[2].RespondentName)

	w = env.do("GET", "/api/v1/admin/responses?submitted=false", "", "Authorization", "Bearer test-token")
	require.Equal(t, http.StatusOK, w.Code)
	var drafts []store.SurveySummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&drafts))
	require.Len(t, drafts, 1)
	assert.Equal(t, "b", drafts[0].RespondentName)
}

func TestMetricsRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)
	rec.ObserveError(scoring.ErrInvalidInput)

	router := NewMetricsRouter(reg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `riskalloc_computations_total{outcome="invalid"} 1`)
}
