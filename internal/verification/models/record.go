package models

import (
	"errors"
	"fmt"
	"time"

	"ptacheck/internal/imei"
)

// TimestampLayout is the ISO-8601 layout used for verification_date.
const TimestampLayout = time.RFC3339Nano

// ErrMissingIMEI is returned when a verdict without an identifier is persisted.
var ErrMissingIMEI = errors.New("verdict has no imei")

// Record is the persisted form of a verdict.
type Record struct {
	ID               string   `json:"id,omitempty"`
	IMEI             string   `json:"imei"`
	Status           Status   `json:"status"`
	Details          *Details `json:"details"`
	ErrorMessage     *string  `json:"error_message"`
	VerificationDate string   `json:"verification_date"`
}

// RecordFromVerdict converts a verdict into its persisted form. Interim
// statuses are finalized first.
func RecordFromVerdict(v Verdict) (Record, error) {
	if v.IMEI.IsZero() {
		return Record{}, ErrMissingIMEI
	}
	v = v.Finalize()

	rec := Record{
		IMEI:             v.IMEI.String(),
		Status:           v.Status,
		Details:          v.Details,
		VerificationDate: v.VerifiedAt.UTC().Format(TimestampLayout),
	}
	if v.ErrorMessage != "" {
		msg := v.ErrorMessage
		rec.ErrorMessage = &msg
	}
	return rec, nil
}

// Verdict converts the record back into a verdict.
func (r Record) Verdict() (Verdict, error) {
	id, err := imei.Parse(r.IMEI)
	if err != nil {
		return Verdict{}, fmt.Errorf("record imei: %w", err)
	}
	if !r.Status.IsValid() {
		return Verdict{}, fmt.Errorf("record status %q is not a persisted status", r.Status)
	}
	at, err := time.Parse(TimestampLayout, r.VerificationDate)
	if err != nil {
		return Verdict{}, fmt.Errorf("record verification_date: %w", err)
	}

	v := Verdict{
		IMEI:       id,
		Status:     r.Status,
		Details:    r.Details,
		VerifiedAt: at,
	}
	if r.ErrorMessage != nil {
		v.ErrorMessage = *r.ErrorMessage
	}
	return v, nil
}
