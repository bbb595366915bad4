package handler

import (
	"ptacheck/internal/verification/models"
	"ptacheck/internal/verification/orchestrator"
)

// VerifyResponse mirrors the pipeline result.
type VerifyResponse struct {
	Success      bool            `json:"success"`
	IMEI         string          `json:"imei"`
	Status       models.Status   `json:"status"`
	Details      *models.Details `json:"details"`
	ErrorMessage *string         `json:"error_message"`
	Message      string          `json:"message"`
	RetryCount   int             `json:"retry_count"`
}

func fromResult(res orchestrator.Result) VerifyResponse {
	resp := VerifyResponse{
		Success:    res.Success,
		IMEI:       res.IMEI,
		Status:     res.Status,
		Details:    res.Details,
		Message:    res.Message,
		RetryCount: res.RetryCount,
	}
	if res.ErrorMessage != "" {
		msg := res.ErrorMessage
		resp.ErrorMessage = &msg
	}
	return resp
}

// HistoryResponse lists persisted verdicts, newest first.
type HistoryResponse struct {
	Records []models.Record `json:"records"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
