package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mohanadbarakat001/ATS/internal/generation"
	"github.com/mohanadbarakat001/ATS/internal/history"
	"github.com/mohanadbarakat001/ATS/internal/types"
)

type fakeGenerator struct {
	outcome  *types.OptimizationOutcome
	genErr   error
	fragment string
	fragErr  error
}

func (f *fakeGenerator) Generate(_ context.Context, _ types.GenerationRequest) (*types.OptimizationOutcome, error) {
	return f.outcome, f.genErr
}

func (f *fakeGenerator) RegenerateFragment(_ context.Context, currentText, _ string, _ generation.FragmentKind) (string, error) {
	if f.fragErr != nil {
		return "", f.fragErr
	}
	if f.fragment == "" {
		return currentText, nil
	}
	return f.fragment, nil
}

func sampleOutcome() *types.OptimizationOutcome {
	return &types.OptimizationOutcome{
		Resume: types.ResumeDocument{
			Contact:    types.ContactInfo{FullName: "Jane Doe", Email: "jane@example.com", Phone: "555-0100"},
			Summary:    "Backend engineer.",
			Experience: []types.ExperienceEntry{{ID: "exp-1", Role: "Engineer", Company: "Acme", Dates: "2021", Bullets: []string{"Built APIs"}}},
			Education:  []types.EducationEntry{{ID: "edu-1", Degree: "BS CS", School: "UT", Year: "2019"}},
			Skills:     []string{"Go"},
		},
		CoverLetter:     "Dear Hiring Manager,",
		LinkedInSummary: "Engineer.",
		Analysis:        types.AnalysisReport{MatchScore: 82},
		TargetRole:      "Backend Engineer",
	}
}

func newTestServer(t *testing.T, gen generation.Generator) (*Server, *history.Store) {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.json"), zap.NewNop())
	require.NoError(t, err)

	srv, err := New(Config{
		Port:      0,
		Generator: gen,
		Store:     store,
		Logger:    zap.NewNop(),
	})
	require.NoError(t, err)
	return srv, store
}

func optimizeBody() string {
	return `{
		"resumeText": "` + strings.Repeat("Backend engineer with Go experience. ", 3) + `",
		"jobDescription": "` + strings.Repeat("We are hiring a Backend Engineer to build Go services. ", 3) + `",
		"config": {"seniority": "Mid", "tone": "Professional", "primaryNiche": "Software Engineering"}
	}`
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t, &fakeGenerator{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestHandleOptimize_Success(t *testing.T) {
	srv, store := newTestServer(t, &fakeGenerator{outcome: sampleOutcome()})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/optimize", strings.NewReader(optimizeBody()))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result types.OptimizationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "Backend Engineer", result.TargetRole)
	assert.InDelta(t, time.Now().UnixMilli(), result.CreatedAt, 5000)

	// The result was persisted.
	stored, err := store.Get(result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.TargetRole, stored.TargetRole)
}

func TestHandleOptimize_ShortInputsRejected(t *testing.T) {
	srv, store := newTestServer(t, &fakeGenerator{outcome: sampleOutcome()})

	body := `{"resumeText": "short", "jobDescription": "also short"}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/optimize", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, store.Len())
}

func TestHandleOptimize_InvalidBody(t *testing.T) {
	srv, _ := newTestServer(t, &fakeGenerator{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/optimize", strings.NewReader("{broken")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleOptimize_EngineFailure(t *testing.T) {
	gen := &fakeGenerator{genErr: &generation.APICallError{Message: "engine unavailable"}}
	srv, store := newTestServer(t, gen)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/optimize", strings.NewReader(optimizeBody())))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, 0, store.Len())
}

func TestHandleRegenerate_Success(t *testing.T) {
	srv, _ := newTestServer(t, &fakeGenerator{fragment: "Rewritten with [X]% impact"})

	body := `{"currentText": "Built APIs", "kind": "bullet"}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/regenerate", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp RegenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Rewritten with [X]% impact", resp.Text)
}

func TestHandleRegenerate_UnknownKind(t *testing.T) {
	srv, _ := newTestServer(t, &fakeGenerator{})

	body := `{"currentText": "Built APIs", "kind": "haiku"}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/regenerate", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRegenerate_MissingText(t *testing.T) {
	srv, _ := newTestServer(t, &fakeGenerator{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/regenerate", strings.NewReader(`{"kind": "bullet"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func seedStore(t *testing.T, store *history.Store) types.OptimizationResult {
	t.Helper()
	result := types.OptimizationResult{
		ID:              "res-1",
		CreatedAt:       time.Now().UnixMilli(),
		OptimizedResume: sampleOutcome().Resume,
		CoverLetter:     "Dear Hiring Manager,",
		Analysis:        types.AnalysisReport{MatchScore: 82},
		TargetRole:      "Backend Engineer",
	}
	require.NoError(t, store.Append(result))
	return result
}

func TestHandleListHistory(t *testing.T) {
	srv, store := newTestServer(t, &fakeGenerator{})
	seedStore(t, store)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []HistorySummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "res-1", summaries[0].ID)
	assert.Equal(t, 82, summaries[0].MatchScore)
}

func TestHandleGetResult(t *testing.T) {
	srv, store := newTestServer(t, &fakeGenerator{})
	seedStore(t, store)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history/res-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var result types.OptimizationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Backend Engineer", result.TargetRole)
}

func TestHandleGetResult_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, &fakeGenerator{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleExportResume(t *testing.T) {
	srv, store := newTestServer(t, &fakeGenerator{})
	seedStore(t, store)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history/res-1/resume.txt", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "# Jane Doe")
	assert.Contains(t, rec.Body.String(), "## Professional Summary")
}

func TestHandleDeleteResult(t *testing.T) {
	srv, store := newTestServer(t, &fakeGenerator{})
	seedStore(t, store)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/history/res-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, store.Len())

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/history/res-1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPStatus_MapsErrorTypes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(&history.NotFoundError{ID: "x"}))
	assert.Equal(t, http.StatusConflict, HTTPStatus(&history.DuplicateIDError{ID: "x"}))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(&generation.APICallError{Message: "down"}))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(&generation.IncompleteResponseError{Missing: []string{"resume"}}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("other")))
}
