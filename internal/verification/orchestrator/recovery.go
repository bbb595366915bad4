package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ptacheck/internal/imei"
	"ptacheck/internal/verification/metrics"
	"ptacheck/internal/verification/models"
	"ptacheck/internal/verification/ports"
	"ptacheck/pkg/requestcontext"
)

// bestEffortTimeout bounds fault and verdict writes made after the run's own
// context has ended.
const bestEffortTimeout = 5 * time.Second

// recovery decides what happens after a failed step: retry the whole
// pipeline, or stop and report.
type recovery struct {
	maxRetries int
	store      ports.VerdictStore
	faults     ports.FaultLog
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// handle logs and records the fault, then returns either retry=true or the
// terminal result.
func (r *recovery) handle(ctx context.Context, st *State, err error) (Result, bool) {
	var se *StepError
	if !errors.As(err, &se) {
		se = stepFailed(st.Step, err.Error(), err)
	}

	r.metrics.IncrementStepFailure(string(se.Step))
	r.logger.ErrorContext(ctx, "verification step failed",
		"run_id", st.RunID,
		"step", se.Step,
		"retry_count", st.RetryCount,
		"error", se,
	)
	r.appendFault(ctx, st, se)

	switch {
	case errors.Is(err, imei.ErrInvalid):
		return Result{
			Success:      false,
			IMEI:         st.RawIMEI,
			Status:       models.StatusError,
			ErrorMessage: se.Message,
			Message:      "Invalid IMEI format",
			RetryCount:   st.RetryCount,
			FailedStep:   se.Step,
		}, false
	case ctx.Err() != nil:
		return r.terminal(ctx, st, se, fmt.Sprintf("Verification aborted: %v", ctx.Err())), false
	case st.RetryCount < r.maxRetries:
		r.metrics.IncrementRetry()
		return Result{}, true
	default:
		return r.terminal(ctx, st, se, fmt.Sprintf("Verification failed after %d retries", st.RetryCount)), false
	}
}

// terminal persists an Error verdict when the identifier is known and builds
// the failure result. Persistence failure here is only logged.
func (r *recovery) terminal(ctx context.Context, st *State, se *StepError, msg string) Result {
	res := Result{
		Success:      false,
		IMEI:         st.RawIMEI,
		Status:       models.StatusError,
		ErrorMessage: se.Message,
		Message:      msg,
		RetryCount:   st.RetryCount,
		FailedStep:   se.Step,
	}
	if st.IMEI.IsZero() {
		return res
	}
	res.IMEI = st.IMEI.String()

	v := models.NewErrorVerdict(st.IMEI, se.Message, requestcontext.Now(ctx))
	res.VerifiedAt = v.VerifiedAt
	if st.Verdict.Status == models.StatusError && st.Verdict.Details != nil {
		v.Details = st.Verdict.Details
	}
	res.Details = v.Details

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bestEffortTimeout)
	defer cancel()
	rec, err := r.store.Save(writeCtx, v)
	if err != nil {
		r.metrics.RecordStoreWrite("error")
		r.logger.ErrorContext(ctx, "failed to persist error verdict",
			"run_id", st.RunID,
			"imei", res.IMEI,
			"error", err,
		)
		return res
	}
	r.metrics.RecordStoreWrite("ok")
	res.Record = &rec
	return res
}

func (r *recovery) appendFault(ctx context.Context, st *State, se *StepError) {
	if r.faults == nil {
		return
	}
	faultCtx := st.Fields()
	for k, v := range se.Context {
		faultCtx[k] = v
	}
	fault := models.Fault{
		RunID:        st.RunID,
		Step:         string(se.Step),
		ErrorMessage: se.Error(),
		Context:      faultCtx,
		RetryCount:   st.RetryCount,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if !st.IMEI.IsZero() {
		fault.IMEI = st.IMEI.String()
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bestEffortTimeout)
	defer cancel()
	if err := r.faults.AppendFault(writeCtx, fault); err != nil {
		r.logger.WarnContext(ctx, "failed to record fault",
			"run_id", st.RunID,
			"step", se.Step,
			"error", err,
		)
	}
}
