package models

import "time"

// Fault is a diagnostic row written for every failed pipeline step.
type Fault struct {
	ID           string         `json:"id,omitempty"`
	RunID        string         `json:"run_id"`
	IMEI         string         `json:"imei,omitempty"`
	Step         string         `json:"step"`
	ErrorMessage string         `json:"error_message"`
	Context      map[string]any `json:"context,omitempty"`
	RetryCount   int            `json:"retry_count"`
	CreatedAt    time.Time      `json:"created_at"`
}
