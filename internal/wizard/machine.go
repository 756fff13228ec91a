// Package wizard drives the optimization workflow as a linear five-step state
// machine: upload, job details, configuration, processing, results. Inputs
// survive backwards navigation; only an explicit reset discards them.
package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mohanadbarakat001/ATS/internal/generation"
	"github.com/mohanadbarakat001/ATS/internal/types"
)

// Step identifies one workflow step
type Step int

// Workflow steps in order.
const (
	StepUpload Step = iota + 1
	StepJobDetails
	StepConfig
	StepProcessing
	StepResults
)

func (s Step) String() string {
	switch s {
	case StepUpload:
		return "upload"
	case StepJobDetails:
		return "job-details"
	case StepConfig:
		return "config"
	case StepProcessing:
		return "processing"
	case StepResults:
		return "results"
	default:
		return "unknown"
	}
}

// ResultSink receives completed optimization results for persistence.
// Sink failures do not fail the workflow; the result is still presented.
type ResultSink interface {
	Append(result types.OptimizationResult) error
}

// SinkFunc adapts a function to the ResultSink interface
type SinkFunc func(result types.OptimizationResult) error

// Append calls f
func (f SinkFunc) Append(result types.OptimizationResult) error {
	return f(result)
}

// Machine is one workflow instance. It is safe for concurrent use; at most
// one generation may be in flight per machine.
type Machine struct {
	mu   sync.Mutex
	gen  generation.Generator
	sink ResultSink

	step           Step
	resumeText     string
	jobDescription string
	config         types.UserConfig
	result         *types.OptimizationResult
	lastErr        error
	inFlight       bool
	inFlightToken  int
	runToken       int

	sinkErr error
}

// NewMachine creates a workflow at the upload step with default configuration.
// sink may be nil when persistence is not wanted.
func NewMachine(gen generation.Generator, sink ResultSink) *Machine {
	return &Machine{
		gen:    gen,
		sink:   sink,
		step:   StepUpload,
		config: types.DefaultUserConfig(),
	}
}

// Step returns the current workflow step
func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// LastErr returns the error recorded by the most recent failed generation,
// cleared by the next successful Advance out of the configuration step.
func (m *Machine) LastErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// SinkErr returns the persistence error of the most recent completed run, if
// any. A sink failure never blocks the results step.
func (m *Machine) SinkErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sinkErr
}

// Result returns the completed result once the workflow is at the results step
func (m *Machine) Result() *types.OptimizationResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// ResumeText returns the current resume input
func (m *Machine) ResumeText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resumeText
}

// JobDescription returns the current job description input
func (m *Machine) JobDescription() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobDescription
}

// Config returns the current tuning configuration
func (m *Machine) Config() types.UserConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// SetResumeText replaces the resume input. Inputs are frozen while a
// generation is in flight.
func (m *Machine) SetResumeText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return ErrGenerationInFlight
	}
	m.resumeText = text
	return nil
}

// SetJobDescription replaces the job description input
func (m *Machine) SetJobDescription(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return ErrGenerationInFlight
	}
	m.jobDescription = text
	return nil
}

// SetConfig replaces the tuning configuration
func (m *Machine) SetConfig(cfg types.UserConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return ErrGenerationInFlight
	}
	m.config = cfg
	return nil
}

// CanAdvance reports whether the current step's gate is satisfied, and the
// unmet requirement when it is not.
func (m *Machine) CanAdvance() (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canAdvanceLocked()
}

func (m *Machine) canAdvanceLocked() (bool, string) {
	switch m.step {
	case StepUpload:
		if len(m.resumeText) < types.MinResumeTextLength {
			return false, "resume text must be at least 50 characters"
		}
		return true, ""
	case StepJobDetails:
		if len(m.jobDescription) < types.MinJobDescriptionLength {
			return false, "job description must be at least 100 characters"
		}
		return true, ""
	case StepConfig:
		req := m.requestLocked()
		if err := req.Validate(); err != nil {
			return false, err.Error()
		}
		return true, ""
	case StepProcessing:
		return false, "generation is in progress"
	case StepResults:
		return false, "the workflow is complete"
	default:
		return false, "unknown step"
	}
}

func (m *Machine) requestLocked() types.GenerationRequest {
	return types.GenerationRequest{
		ResumeText:     m.resumeText,
		JobDescription: m.jobDescription,
		Config:         m.config,
	}
}

// Advance moves the workflow forward one step. Leaving the configuration step
// runs the generation: the workflow sits at processing for the duration, then
// lands on results. On engine failure the workflow returns to the
// configuration step with all inputs intact and the error recorded.
func (m *Machine) Advance(ctx context.Context) error {
	m.mu.Lock()

	if m.inFlight {
		m.mu.Unlock()
		return ErrGenerationInFlight
	}

	ok, reason := m.canAdvanceLocked()
	if !ok {
		from := m.step
		m.mu.Unlock()
		return &TransitionError{From: from, Reason: reason}
	}

	switch m.step {
	case StepUpload:
		m.step = StepJobDetails
		m.mu.Unlock()
		return nil
	case StepJobDetails:
		m.step = StepConfig
		m.mu.Unlock()
		return nil
	case StepConfig:
		return m.runGeneration(ctx)
	default:
		from := m.step
		m.mu.Unlock()
		return &TransitionError{From: from, Reason: "no forward transition"}
	}
}

// runGeneration is entered with the lock held and releases it around the
// engine call.
func (m *Machine) runGeneration(ctx context.Context) error {
	req := m.requestLocked()
	m.step = StepProcessing
	m.inFlight = true
	m.lastErr = nil
	m.sinkErr = nil
	token := m.runToken
	m.inFlightToken = token
	m.mu.Unlock()

	outcome, genErr := m.gen.Generate(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()

	// Release exclusivity only if this call still owns it; a reset may have
	// cleared the flag and a newer run may hold it now.
	if m.inFlight && m.inFlightToken == token {
		m.inFlight = false
	}

	// The workflow was reset or navigated away while the engine call was
	// outstanding; the stale outcome must not resurrect it.
	if m.runToken != token {
		return nil
	}

	if genErr != nil {
		m.step = StepConfig
		m.lastErr = &GenerationFailedError{Cause: genErr}
		return m.lastErr
	}

	result := types.OptimizationResult{
		ID:                 uuid.NewString(),
		CreatedAt:          time.Now().UnixMilli(),
		OriginalResumeText: req.ResumeText,
		JobDescription:     req.JobDescription,
		OptimizedResume:    outcome.Resume,
		CoverLetter:        outcome.CoverLetter,
		LinkedInSummary:    outcome.LinkedInSummary,
		Analysis:           outcome.Analysis,
		TargetRole:         outcome.TargetRole,
	}

	if m.sink != nil {
		m.sinkErr = m.sink.Append(result)
	}

	m.result = &result
	m.step = StepResults
	return nil
}

// Back moves the workflow one step backwards without clearing any input.
// Leaving processing abandons the in-flight generation: its outcome is
// discarded when it lands, but the machine stays exclusive until then, so a
// new generation cannot start while the abandoned call is unresolved.
func (m *Machine) Back() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.step {
	case StepUpload:
		return &TransitionError{From: m.step, Reason: "already at the first step"}
	case StepProcessing:
		m.step = StepConfig
		m.runToken++
		return nil
	case StepResults:
		m.step = StepConfig
		return nil
	default:
		m.step--
		return nil
	}
}

// Reset returns the workflow to the upload step with empty inputs and the
// default configuration. An in-flight generation keeps running but its
// outcome is discarded when it lands.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step = StepUpload
	m.resumeText = ""
	m.jobDescription = ""
	m.config = types.DefaultUserConfig()
	m.result = nil
	m.lastErr = nil
	m.sinkErr = nil
	m.inFlight = false
	m.runToken++
}

// LoadResult jumps directly to the results step with a previously stored
// result, restoring its inputs so backwards navigation behaves as if the run
// had just completed.
func (m *Machine) LoadResult(result types.OptimizationResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := result
	m.result = &r
	m.resumeText = result.OriginalResumeText
	m.jobDescription = result.JobDescription
	m.step = StepResults
	m.lastErr = nil
	m.sinkErr = nil
	m.runToken++
	m.inFlight = false
}
