// Package capmonster is a solver backend for the CapMonster Cloud task API.
package capmonster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"ptacheck/internal/verification/ports"
	"ptacheck/internal/verification/solver"
)

const (
	ID             = "capmonster"
	DefaultBaseURL = "https://api.capmonster.cloud"
)

// Client talks to CapMonster Cloud.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	poll       solver.Poller
	rest       *resty.Client
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds a whole solve, task creation plus polling.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithPolling(initialDelay, interval time.Duration) Option {
	return func(c *Client) {
		c.poll = solver.Poller{InitialDelay: initialDelay, Interval: interval}
	}
}

// New creates a CapMonster client.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, solver.NewSolverError(solver.ErrorAuthentication, ID, "api key is required", nil)
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		timeout:    3 * time.Minute,
		poll:       solver.Poller{InitialDelay: 2 * time.Second, Interval: 2 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rest = resty.NewWithClient(c.httpClient).
		SetBaseURL(c.baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return c, nil
}

var _ ports.SolverBackend = (*Client)(nil)

func (c *Client) ID() string { return ID }

type task struct {
	Type        string `json:"type"`
	Body        string `json:"body,omitempty"`
	WebsiteURL  string `json:"websiteURL,omitempty"`
	WebsiteKey  string `json:"websiteKey,omitempty"`
	IsInvisible bool   `json:"isInvisible,omitempty"`
}

type createTaskRequest struct {
	ClientKey string `json:"clientKey"`
	Task      task   `json:"task"`
}

type taskResultRequest struct {
	ClientKey string `json:"clientKey"`
	TaskID    int64  `json:"taskId"`
}

type apiResponse struct {
	ErrorID          int    `json:"errorId"`
	ErrorCode        string `json:"errorCode"`
	ErrorDescription string `json:"errorDescription"`
	TaskID           int64  `json:"taskId"`
	Status           string `json:"status"`
	Solution         struct {
		Text               string `json:"text"`
		GRecaptchaResponse string `json:"gRecaptchaResponse"`
	} `json:"solution"`
}

// SolveImage submits an ImageToText task.
func (c *Client) SolveImage(ctx context.Context, imageBase64 string) (ports.Answer, error) {
	res, err := c.solve(ctx, task{Type: "ImageToTextTask", Body: imageBase64})
	if err != nil {
		return ports.Answer{TaskID: taskID(res)}, err
	}
	return ports.Answer{Text: res.Solution.Text, TaskID: taskID(res)}, nil
}

// SolveInteractive submits an invisible reCAPTCHA v2 task.
func (c *Client) SolveInteractive(ctx context.Context, siteKey, pageURL string) (ports.Answer, error) {
	res, err := c.solve(ctx, task{
		Type:        "RecaptchaV2TaskProxyless",
		WebsiteURL:  pageURL,
		WebsiteKey:  siteKey,
		IsInvisible: true,
	})
	if err != nil {
		return ports.Answer{TaskID: taskID(res)}, err
	}
	return ports.Answer{Text: res.Solution.GRecaptchaResponse, TaskID: taskID(res)}, nil
}

func taskID(res *apiResponse) string {
	if res == nil || res.TaskID == 0 {
		return ""
	}
	return strconv.FormatInt(res.TaskID, 10)
}

func (c *Client) solve(ctx context.Context, t task) (*apiResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	created, err := c.post(ctx, "/createTask", createTaskRequest{ClientKey: c.apiKey, Task: t})
	if err != nil {
		return nil, err
	}

	var result *apiResponse
	err = c.poll.Poll(ctx, func(ctx context.Context) (bool, error) {
		res, err := c.post(ctx, "/getTaskResult", taskResultRequest{ClientKey: c.apiKey, TaskID: created.TaskID})
		if err != nil {
			return false, err
		}
		if res.Status != "ready" {
			return false, nil
		}
		result = res
		return true, nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return created, solver.NewSolverError(solver.ErrorTimeout, ID, fmt.Sprintf("task %d not solved in time", created.TaskID), err)
		}
		return created, err
	}
	result.TaskID = created.TaskID
	return result, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*apiResponse, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(payload).
		Post(path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, solver.NewSolverError(solver.ErrorTimeout, ID, "request cancelled", err)
		}
		return nil, solver.NewSolverError(solver.ErrorServiceOutage, ID, "request failed", err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return nil, solver.NewSolverError(solver.ErrorServiceOutage, ID, fmt.Sprintf("status %d", resp.StatusCode()), nil)
	}

	var out apiResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, solver.NewSolverError(solver.ErrorBadData, ID, "decode response", err)
	}
	if out.ErrorID != 0 {
		return nil, apiError(out.ErrorCode, out.ErrorDescription)
	}
	return &out, nil
}

func apiError(code, description string) error {
	var category solver.ErrorCategory
	switch code {
	case "ERROR_KEY_DOES_NOT_EXIST", "ERROR_IP_NOT_ALLOWED", "ERROR_IP_BANNED":
		category = solver.ErrorAuthentication
	case "ERROR_ZERO_BALANCE":
		category = solver.ErrorBalance
	case "ERROR_NO_SLOT_AVAILABLE", "ERROR_TOO_MUCH_REQUESTS":
		category = solver.ErrorRateLimited
	case "ERROR_CAPTCHA_UNSOLVABLE":
		category = solver.ErrorUnsolvable
	case "ERROR_MAXIMUM_TIME_EXCEED":
		category = solver.ErrorTimeout
	default:
		category = solver.ErrorBadData
	}
	msg := code
	if description != "" {
		msg += ": " + description
	}
	return solver.NewSolverError(category, ID, msg, nil)
}
