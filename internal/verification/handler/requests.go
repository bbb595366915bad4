package handler

import (
	"net/url"
	"strconv"
	"strings"

	dErrors "ptacheck/pkg/domain-errors"
)

// VerifyRequest is the body of POST /verify.
type VerifyRequest struct {
	IMEI string `json:"imei"`
}

// Validate trims the identifier. Format checks belong to the pipeline so the
// caller still gets a structured result for a malformed IMEI.
func (r *VerifyRequest) Validate() error {
	r.IMEI = strings.TrimSpace(r.IMEI)
	if r.IMEI == "" {
		return dErrors.New(dErrors.CodeValidation, "imei is required")
	}
	return nil
}

// verifyOptions are the optional query overrides of POST /verify.
type verifyOptions struct {
	headless   *bool
	maxRetries *int
	skipCache  bool
}

func parseVerifyOptions(q url.Values) (verifyOptions, error) {
	var opts verifyOptions
	if raw := q.Get("headless"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, dErrors.New(dErrors.CodeBadRequest, "headless must be a boolean")
		}
		opts.headless = &v
	}
	if raw := q.Get("max_retries"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return opts, dErrors.New(dErrors.CodeBadRequest, "max_retries must be an integer")
		}
		opts.maxRetries = &v
	}
	if raw := q.Get("fresh"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, dErrors.New(dErrors.CodeBadRequest, "fresh must be a boolean")
		}
		opts.skipCache = v
	}
	return opts, nil
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer")
	}
	return v, nil
}
