package orchestrator

import (
	"fmt"
	"time"

	"ptacheck/internal/imei"
	"ptacheck/internal/verification/challenge"
	"ptacheck/internal/verification/models"
	"ptacheck/internal/verification/ports"
)

// Step names one stage of the pipeline.
type Step string

const (
	StepValidate          Step = "validate_identifier"
	StepClassifyChallenge Step = "classify_challenge"
	StepSolveChallenge    Step = "solve_challenge"
	StepInteract          Step = "interact_with_page"
	StepClassifyResult    Step = "classify_result"
	StepPersist           Step = "persist_verdict"
	StepDone              Step = "done"
	StepFailed            Step = "failed"
)

// Sequence is the fixed order of an attempt. No step is skipped.
var Sequence = []Step{
	StepValidate,
	StepClassifyChallenge,
	StepSolveChallenge,
	StepInteract,
	StepClassifyResult,
	StepPersist,
}

// State accumulates step outputs for one attempt. A retry starts from a
// fresh State carrying only the run identity and the retry counter.
type State struct {
	RunID      string
	RawIMEI    string
	RetryCount int
	Step       Step

	IMEI      imei.IMEI
	Challenge challenge.Challenge
	Solution  challenge.Solution
	Verdict   models.Verdict
	Record    *models.Record

	session ports.Session
}

func newState(runID, raw string, retryCount int) *State {
	return &State{
		RunID:      runID,
		RawIMEI:    raw,
		RetryCount: retryCount,
		Step:       StepValidate,
	}
}

// Fields is the loggable view of the state; snapshots and tokens are left out.
func (s *State) Fields() map[string]any {
	fields := map[string]any{
		"run_id":      s.RunID,
		"step":        string(s.Step),
		"retry_count": s.RetryCount,
	}
	if !s.IMEI.IsZero() {
		fields["imei"] = s.IMEI.String()
	}
	if s.Challenge.Kind != "" {
		fields["challenge"] = string(s.Challenge.Kind)
	}
	if s.Solution.SolverID != "" {
		fields["solver"] = s.Solution.SolverID
	}
	if s.Solution.TaskID != "" {
		fields["solver_task_id"] = s.Solution.TaskID
	}
	if s.Verdict.Status != "" {
		fields["status"] = string(s.Verdict.Status)
	}
	return fields
}

// StepError is a failed step. Expected failures (unsolved challenge, result
// not found) and returned faults both become a StepError.
type StepError struct {
	Step    Step
	Message string
	Context map[string]any
	Err     error
}

func (e *StepError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Step, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Step, e.Message)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepFailed(step Step, msg string, err error) *StepError {
	return &StepError{Step: step, Message: msg, Err: err}
}

// Result is what a caller receives for every run, successful or not.
type Result struct {
	Success      bool
	IMEI         string
	Status       models.Status
	Details      *models.Details
	ErrorMessage string
	Message      string
	RetryCount   int
	VerifiedAt   time.Time
	// FailedStep is set when Success is false.
	FailedStep Step
	// Record is the persisted row, when persistence succeeded.
	Record *models.Record
}
