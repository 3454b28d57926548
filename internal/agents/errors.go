package agents

import "fmt"

// ValidationError rejects pipeline input before any model call is spent,
// e.g. a job description below the minimum length.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// SchemaValidationError marks stage output that failed structural
// validation. The controller re-prompts once; a second failure applies
// the stage's documented fallback or aborts for fatal stages.
type SchemaValidationError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *SchemaValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] schema validation failed: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] schema validation failed: %s", e.Stage, e.Message)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Cause
}

// AgentExecutionError wraps an unexpected failure inside a stage. It
// aborts the run and propagates to the caller as a failed run.
type AgentExecutionError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *AgentExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}

func (e *AgentExecutionError) Unwrap() error {
	return e.Cause
}
