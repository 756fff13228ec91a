package wizard

import (
	"errors"
	"fmt"
)

// ErrGenerationInFlight is returned when Advance is called while a previous
// generation for the same workflow is still running.
var ErrGenerationInFlight = errors.New("a generation is already in flight for this workflow")

// TransitionError reports an Advance or Back call that the current step does
// not permit, with the unmet requirement.
type TransitionError struct {
	From   Step
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot leave step %s: %s", e.From, e.Reason)
}

// GenerationFailedError wraps the engine error that sent the workflow back to
// the configuration step.
type GenerationFailedError struct {
	Cause error
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Cause)
}

func (e *GenerationFailedError) Unwrap() error {
	return e.Cause
}
