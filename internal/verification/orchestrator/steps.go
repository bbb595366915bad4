package orchestrator

import (
	"context"
	"encoding/base64"
	"fmt"

	"ptacheck/internal/verification/challenge"
	"ptacheck/internal/verification/models"
	"ptacheck/internal/verification/ports"
)

func (o *Orchestrator) validateIdentifier(ctx context.Context, st *State) error {
	id, err := o.deps.Validator.Validate(ctx, st.RawIMEI)
	if err != nil {
		return stepFailed(StepValidate, err.Error(), err)
	}
	st.IMEI = id
	return nil
}

// classifyChallenge opens the run's session, loads the regulator form and
// decides which challenge it shows.
func (o *Orchestrator) classifyChallenge(ctx context.Context, st *State) error {
	session, err := o.deps.Sessions.Open(ctx)
	if err != nil {
		return stepFailed(StepClassifyChallenge, "failed to open browser session", err)
	}
	st.session = session

	if err := session.Navigate(ctx, o.cfg.TargetURL); err != nil {
		return &StepError{
			Step:    StepClassifyChallenge,
			Message: "failed to load verification page",
			Context: map[string]any{"url": o.cfg.TargetURL},
			Err:     err,
		}
	}

	c := o.deps.Challenges.Classify(ctx, session)
	st.Challenge = c
	if c.Kind == challenge.KindUnrecognized {
		fault := &StepError{
			Step:    StepClassifyChallenge,
			Message: "unrecognized challenge: " + c.Reason,
			Context: map[string]any{"url": o.cfg.TargetURL},
		}
		if len(c.Snapshot) > 0 {
			fault.Context["screenshot"] = base64.StdEncoding.EncodeToString(c.Snapshot)
		}
		return fault
	}

	o.logger.InfoContext(ctx, "challenge classified",
		"run_id", st.RunID,
		"challenge", c.Kind,
	)
	return nil
}

func (o *Orchestrator) solveChallenge(ctx context.Context, st *State) error {
	sol := o.deps.Solver.Solve(ctx, st.Challenge)
	st.Solution = sol
	if !sol.Success {
		return &StepError{
			Step:    StepSolveChallenge,
			Message: fmt.Sprintf("challenge not solved: %s", sol.Error),
			Context: map[string]any{
				"challenge": string(st.Challenge.Kind),
				"solver":    sol.SolverID,
			},
		}
	}
	return nil
}

func (o *Orchestrator) interactWithPage(ctx context.Context, st *State) error {
	if st.session == nil {
		return stepFailed(StepInteract, "no browser session", nil)
	}
	sub := ports.Submission{
		IMEI:   st.IMEI,
		Answer: st.Solution.Text,
		Token:  st.Solution.IsToken(),
	}
	if err := st.session.Fill(ctx, sub); err != nil {
		return stepFailed(StepInteract, "failed to fill verification form", err)
	}
	if err := st.session.TriggerEvaluation(ctx); err != nil {
		return stepFailed(StepInteract, "failed to submit verification form", err)
	}
	return nil
}

// classifyResult treats an Error verdict as a step failure so the run is
// retried; the verdict is kept on the state for terminal persistence.
func (o *Orchestrator) classifyResult(ctx context.Context, st *State) error {
	if st.session == nil {
		return stepFailed(StepClassifyResult, "no browser session", nil)
	}
	v := o.deps.Results.Extract(ctx, st.session, st.IMEI).Finalize()
	st.Verdict = v
	if v.Status == models.StatusError {
		fault := &StepError{
			Step:    StepClassifyResult,
			Message: v.ErrorMessage,
			Context: map[string]any{},
		}
		if v.Details != nil {
			if v.Details.RawText != "" {
				fault.Context["raw_text"] = v.Details.RawText
			}
			if v.Details.PageText != "" {
				fault.Context["page_text"] = v.Details.PageText
			}
		}
		return fault
	}
	return nil
}

// persistVerdict never fails the run: the verdict is already determined.
func (o *Orchestrator) persistVerdict(ctx context.Context, st *State) error {
	rec, err := o.deps.Store.Save(ctx, st.Verdict)
	if err != nil {
		o.metrics.RecordStoreWrite("error")
		o.logger.ErrorContext(ctx, "failed to persist verdict",
			"run_id", st.RunID,
			"imei", st.IMEI.String(),
			"error", err,
		)
		return nil
	}
	o.metrics.RecordStoreWrite("ok")
	st.Record = &rec
	return nil
}
