package wizard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohanadbarakat001/ATS/internal/generation"
	"github.com/mohanadbarakat001/ATS/internal/types"
)

// fakeGenerator serves a canned outcome or error. A non-nil gate blocks the
// Generate call until closed.
type fakeGenerator struct {
	outcome *types.OptimizationOutcome
	err     error
	gate    chan struct{}

	mu      sync.Mutex
	lastReq types.GenerationRequest
	calls   int
}

func (f *fakeGenerator) Generate(_ context.Context, req types.GenerationRequest) (*types.OptimizationOutcome, error) {
	f.mu.Lock()
	f.lastReq = req
	f.calls++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return f.outcome, f.err
}

func (f *fakeGenerator) RegenerateFragment(_ context.Context, currentText, _ string, _ generation.FragmentKind) (string, error) {
	return currentText, nil
}

// memorySink collects appended results
type memorySink struct {
	mu      sync.Mutex
	results []types.OptimizationResult
	err     error
}

func (s *memorySink) Append(result types.OptimizationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.results = append(s.results, result)
	return nil
}

func (s *memorySink) stored() []types.OptimizationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.OptimizationResult(nil), s.results...)
}

var (
	validResume = strings.Repeat("Backend engineer with Go experience. ", 3)
	validJob    = strings.Repeat("We are hiring a Backend Engineer to build Go services. ", 3)
)

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

// fillInputs walks a machine from upload to the configuration step
func fillInputs(t *testing.T, m *Machine) {
	t.Helper()
	require.NoError(t, m.SetResumeText(validResume))
	require.NoError(t, m.Advance(context.Background()))
	require.NoError(t, m.SetJobDescription(validJob))
	require.NoError(t, m.Advance(context.Background()))
	require.Equal(t, StepConfig, m.Step())
}

func TestMachine_StartsAtUploadWithDefaults(t *testing.T) {
	m := NewMachine(&fakeGenerator{}, nil)

	assert.Equal(t, StepUpload, m.Step())
	assert.Equal(t, types.DefaultUserConfig(), m.Config())
}

func TestAdvance_BlockedByShortResume(t *testing.T) {
	m := NewMachine(&fakeGenerator{}, nil)
	require.NoError(t, m.SetResumeText("too short"))

	err := m.Advance(context.Background())

	var transition *TransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, StepUpload, transition.From)
	assert.Equal(t, StepUpload, m.Step())
}

func TestAdvance_BlockedByShortJobDescription(t *testing.T) {
	m := NewMachine(&fakeGenerator{}, nil)
	require.NoError(t, m.SetResumeText(validResume))
	require.NoError(t, m.Advance(context.Background()))

	require.NoError(t, m.SetJobDescription("short posting"))
	err := m.Advance(context.Background())

	assert.Error(t, err)
	assert.Equal(t, StepJobDetails, m.Step())
}

func TestAdvance_ResumeGateUsesRawLength(t *testing.T) {
	m := NewMachine(&fakeGenerator{}, nil)

	// 45 content characters padded to a raw length of 55 passes the gate.
	padded := strings.Repeat("x", 45) + strings.Repeat(" ", 10)
	require.NoError(t, m.SetResumeText(padded))

	ok, _ := m.CanAdvance()
	assert.True(t, ok)
	require.NoError(t, m.Advance(context.Background()))
	assert.Equal(t, StepJobDetails, m.Step())
}

func TestAdvance_ResumeGateBoundary(t *testing.T) {
	m := NewMachine(&fakeGenerator{}, nil)

	require.NoError(t, m.SetResumeText(strings.Repeat("x", 49)))
	ok, _ := m.CanAdvance()
	assert.False(t, ok)

	require.NoError(t, m.SetResumeText(strings.Repeat("x", 50)))
	ok, _ = m.CanAdvance()
	assert.True(t, ok)
}

func TestAdvance_FullRunStoresResult(t *testing.T) {
	sink := &memorySink{}
	m := NewMachine(&fakeGenerator{outcome: sampleOutcome()}, sink)
	fillInputs(t, m)

	require.NoError(t, m.Advance(context.Background()))

	assert.Equal(t, StepResults, m.Step())
	result := m.Result()
	require.NotNil(t, result)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "Backend Engineer", result.TargetRole)
	assert.Equal(t, validResume, result.OriginalResumeText)
	assert.InDelta(t, time.Now().UnixMilli(), result.CreatedAt, 5000)

	stored := sink.stored()
	require.Len(t, stored, 1)
	assert.Equal(t, result.ID, stored[0].ID)
}

func TestAdvance_GenerationFailureReturnsToConfig(t *testing.T) {
	m := NewMachine(&fakeGenerator{err: errors.New("engine unavailable")}, &memorySink{})
	fillInputs(t, m)

	err := m.Advance(context.Background())

	var failed *GenerationFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, StepConfig, m.Step())
	assert.Error(t, m.LastErr())
	assert.Nil(t, m.Result())

	// Inputs survive the failure.
	assert.Equal(t, validResume, m.ResumeText())
	assert.Equal(t, validJob, m.JobDescription())
}

func TestAdvance_RetryAfterFailureClearsError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("transient")}
	m := NewMachine(gen, nil)
	fillInputs(t, m)

	require.Error(t, m.Advance(context.Background()))

	gen.mu.Lock()
	gen.err = nil
	gen.outcome = sampleOutcome()
	gen.mu.Unlock()

	require.NoError(t, m.Advance(context.Background()))
	assert.Equal(t, StepResults, m.Step())
	assert.NoError(t, m.LastErr())
}

func TestAdvance_SinkFailureDoesNotBlockResults(t *testing.T) {
	sink := &memorySink{err: errors.New("disk full")}
	m := NewMachine(&fakeGenerator{outcome: sampleOutcome()}, sink)
	fillInputs(t, m)

	require.NoError(t, m.Advance(context.Background()))

	assert.Equal(t, StepResults, m.Step())
	assert.NotNil(t, m.Result())
	assert.Error(t, m.SinkErr())
}

func TestAdvance_ExclusiveWhileInFlight(t *testing.T) {
	gate := make(chan struct{})
	m := NewMachine(&fakeGenerator{outcome: sampleOutcome(), gate: gate}, nil)
	fillInputs(t, m)

	done := make(chan error, 1)
	go func() {
		done <- m.Advance(context.Background())
	}()

	require.Eventually(t, func() bool {
		return m.Step() == StepProcessing
	}, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, m.Advance(context.Background()), ErrGenerationInFlight)
	assert.ErrorIs(t, m.SetResumeText("new text"), ErrGenerationInFlight)

	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, StepResults, m.Step())
}

func TestBack_PreservesInputs(t *testing.T) {
	m := NewMachine(&fakeGenerator{}, nil)
	fillInputs(t, m)

	require.NoError(t, m.Back())
	assert.Equal(t, StepJobDetails, m.Step())
	require.NoError(t, m.Back())
	assert.Equal(t, StepUpload, m.Step())

	assert.Equal(t, validResume, m.ResumeText())
	assert.Equal(t, validJob, m.JobDescription())

	assert.Error(t, m.Back())
}

func TestBack_FromResultsReturnsToConfig(t *testing.T) {
	m := NewMachine(&fakeGenerator{outcome: sampleOutcome()}, nil)
	fillInputs(t, m)
	require.NoError(t, m.Advance(context.Background()))

	require.NoError(t, m.Back())
	assert.Equal(t, StepConfig, m.Step())
	assert.Equal(t, validResume, m.ResumeText())
}

func TestBack_FromProcessingAbandonsGeneration(t *testing.T) {
	gate := make(chan struct{})
	sink := &memorySink{}
	m := NewMachine(&fakeGenerator{outcome: sampleOutcome(), gate: gate}, sink)
	fillInputs(t, m)

	done := make(chan error, 1)
	go func() {
		done <- m.Advance(context.Background())
	}()

	require.Eventually(t, func() bool {
		return m.Step() == StepProcessing
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Back())
	assert.Equal(t, StepConfig, m.Step())
	assert.Equal(t, validResume, m.ResumeText())

	// The abandoned call still holds exclusivity until it resolves.
	assert.ErrorIs(t, m.Advance(context.Background()), ErrGenerationInFlight)

	// When it lands its outcome is discarded and the machine unlocks.
	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, StepConfig, m.Step())
	assert.Nil(t, m.Result())
	assert.Empty(t, sink.stored())

	require.NoError(t, m.Advance(context.Background()))
	assert.Equal(t, StepResults, m.Step())
	require.Len(t, sink.stored(), 1)
}

func TestReset_ClearsEverything(t *testing.T) {
	m := NewMachine(&fakeGenerator{outcome: sampleOutcome()}, nil)
	fillInputs(t, m)
	require.NoError(t, m.Advance(context.Background()))

	m.Reset()

	assert.Equal(t, StepUpload, m.Step())
	assert.Empty(t, m.ResumeText())
	assert.Empty(t, m.JobDescription())
	assert.Equal(t, types.DefaultUserConfig(), m.Config())
	assert.Nil(t, m.Result())
}

func TestReset_DiscardsLateGenerationResult(t *testing.T) {
	gate := make(chan struct{})
	sink := &memorySink{}
	m := NewMachine(&fakeGenerator{outcome: sampleOutcome(), gate: gate}, sink)
	fillInputs(t, m)

	done := make(chan error, 1)
	go func() {
		done <- m.Advance(context.Background())
	}()

	require.Eventually(t, func() bool {
		return m.Step() == StepProcessing
	}, time.Second, 5*time.Millisecond)

	m.Reset()
	close(gate)

	require.NoError(t, <-done)
	assert.Equal(t, StepUpload, m.Step())
	assert.Nil(t, m.Result())
	assert.Empty(t, sink.stored())
}

func TestLoadResult_JumpsToResults(t *testing.T) {
	m := NewMachine(&fakeGenerator{}, nil)

	stored := types.OptimizationResult{
		ID:                 "old-1",
		CreatedAt:          time.Now().UnixMilli(),
		OriginalResumeText: validResume,
		JobDescription:     validJob,
		OptimizedResume:    sampleOutcome().Resume,
		TargetRole:         "Backend Engineer",
	}
	m.LoadResult(stored)

	assert.Equal(t, StepResults, m.Step())
	require.NotNil(t, m.Result())
	assert.Equal(t, "old-1", m.Result().ID)
	assert.Equal(t, validResume, m.ResumeText())

	// Backwards navigation behaves like a fresh completion.
	require.NoError(t, m.Back())
	assert.Equal(t, StepConfig, m.Step())
}

func TestGeneratePassesVerbatimInputsAndConfig(t *testing.T) {
	gen := &fakeGenerator{outcome: sampleOutcome()}
	m := NewMachine(gen, nil)

	resume := "  " + validResume + "  "
	require.NoError(t, m.SetResumeText(resume))
	require.NoError(t, m.Advance(context.Background()))
	require.NoError(t, m.SetJobDescription(validJob))
	require.NoError(t, m.Advance(context.Background()))

	cfg := types.UserConfig{Seniority: "Senior", Tone: "Direct", PrimaryNiche: "Data & AI", SubNiche: "MLOps"}
	require.NoError(t, m.SetConfig(cfg))
	require.NoError(t, m.Advance(context.Background()))

	gen.mu.Lock()
	defer gen.mu.Unlock()
	assert.Equal(t, resume, gen.lastReq.ResumeText)
	assert.Equal(t, cfg, gen.lastReq.Config)

	// The stored result snapshots the inputs exactly as entered.
	require.NotNil(t, m.Result())
	assert.Equal(t, resume, m.Result().OriginalResumeText)
}
