// Package models holds verification verdicts and the rows persisted for them.
package models

import (
	"time"

	"ptacheck/internal/imei"
)

// Status is the canonical compliance outcome.
type Status string

const (
	StatusCompliant    Status = "Compliant"
	StatusNonCompliant Status = "Non-Compliant"
	StatusError        Status = "Error"
	// StatusUnknown is interim only. Finalize turns it into StatusError
	// before a verdict leaves the pipeline.
	StatusUnknown Status = "Unknown"
)

// IsDefinitive reports whether the regulator gave a real answer.
func (s Status) IsDefinitive() bool {
	return s == StatusCompliant || s == StatusNonCompliant
}

// IsValid reports whether s is one of the persisted statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusCompliant, StatusNonCompliant, StatusError:
		return true
	default:
		return false
	}
}

// Details is the diagnostic payload extracted from the result page.
type Details struct {
	RawText     string `json:"raw_text,omitempty"`
	DeviceModel string `json:"device_model,omitempty"`
	// Snapshot is a base64 JPEG of the page at classification time.
	Snapshot string `json:"screenshot,omitempty"`
	PageText string `json:"page_text,omitempty"`
	Source   string `json:"source,omitempty"`
}

// Verdict is the normalized outcome of one verification.
type Verdict struct {
	IMEI         imei.IMEI
	Status       Status
	Details      *Details
	ErrorMessage string
	VerifiedAt   time.Time
}

// NewErrorVerdict builds a terminal Error verdict.
func NewErrorVerdict(id imei.IMEI, msg string, at time.Time) Verdict {
	return Verdict{
		IMEI:         id,
		Status:       StatusError,
		ErrorMessage: msg,
		VerifiedAt:   at,
	}
}

// Finalize returns v with interim statuses resolved.
func (v Verdict) Finalize() Verdict {
	if !v.Status.IsValid() {
		v.Status = StatusError
		if v.ErrorMessage == "" {
			v.ErrorMessage = "could not determine compliance status"
		}
	}
	return v
}
