// Package twocaptcha is a solver backend for 2captcha.com, built on the
// vendor's Go SDK.
package twocaptcha

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	api2captcha "github.com/2captcha/2captcha-go"

	"ptacheck/internal/verification/ports"
	"ptacheck/internal/verification/solver"
)

const (
	ID             = "2captcha"
	DefaultBaseURL = api2captcha.BaseURL
)

// Client talks to 2captcha.
//
// The SDK is blocking and ignores contexts, so every SDK call runs in its
// own goroutine and is abandoned when ctx ends. The SDK also writes its
// http.Client timeout on each call, so a fresh SDK client is made per solve.
type Client struct {
	apiKey    string
	baseURL   string
	timeout   time.Duration
	imagePoll solver.Poller
	tokenPoll solver.Poller
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout bounds a whole solve, submission plus polling.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithPolling overrides the poll pacing for both challenge kinds.
func WithPolling(initialDelay, interval time.Duration) Option {
	return func(c *Client) {
		p := solver.Poller{InitialDelay: initialDelay, Interval: interval}
		c.imagePoll = p
		c.tokenPoll = p
	}
}

// New creates a 2captcha client.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, solver.NewSolverError(solver.ErrorAuthentication, ID, "api key is required", nil)
	}
	c := &Client{
		apiKey:    apiKey,
		baseURL:   DefaultBaseURL,
		timeout:   3 * time.Minute,
		imagePoll: solver.Poller{InitialDelay: 5 * time.Second, Interval: 5 * time.Second},
		tokenPoll: solver.Poller{InitialDelay: 15 * time.Second, Interval: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, solver.NewSolverError(solver.ErrorInternal, ID, "invalid base url", err)
	}
	return c, nil
}

var _ ports.SolverBackend = (*Client)(nil)

func (c *Client) ID() string { return ID }

// SolveImage submits a base64 image captcha and waits for its text.
func (c *Client) SolveImage(ctx context.Context, imageBase64 string) (ports.Answer, error) {
	captcha := api2captcha.Normal{Base64: imageBase64}
	return c.solve(ctx, captcha.ToRequest(), c.imagePoll)
}

// SolveInteractive submits an invisible reCAPTCHA v2 and waits for its token.
func (c *Client) SolveInteractive(ctx context.Context, siteKey, pageURL string) (ports.Answer, error) {
	captcha := api2captcha.ReCaptcha{SiteKey: siteKey, Url: pageURL, Invisible: true}
	return c.solve(ctx, captcha.ToRequest(), c.tokenPoll)
}

func (c *Client) sdk() *api2captcha.Client {
	sdk := api2captcha.NewClient(c.apiKey)
	sdk.BaseURL, _ = url.Parse(c.baseURL)
	return sdk
}

func (c *Client) solve(ctx context.Context, req api2captcha.Request, poll solver.Poller) (ports.Answer, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	sdk := c.sdk()

	taskID, err := await(ctx, func() (string, error) { return sdk.Send(req) })
	if err != nil {
		return ports.Answer{}, c.submitError(ctx, sdk, err)
	}

	var text string
	err = poll.Poll(ctx, func(ctx context.Context) (bool, error) {
		res, err := await(ctx, func() (*string, error) { return sdk.GetResult(taskID) })
		switch {
		case errors.Is(err, api2captcha.ErrNetwork):
			// transient; the next poll may get through
			return false, nil
		case err != nil:
			return false, err
		case res == nil:
			return false, nil
		}
		text = *res
		return true, nil
	})
	if err != nil {
		return ports.Answer{TaskID: taskID}, resultError(taskID, err)
	}
	return ports.Answer{Text: text, TaskID: taskID}, nil
}

// submitError maps a failed submission onto the solver taxonomy. The SDK
// folds every vendor error code into ErrApi, so a balance lookup tells a
// rejected key and an empty account apart from a busy service.
func (c *Client) submitError(ctx context.Context, sdk *api2captcha.Client, err error) error {
	if isDone(err) {
		return solver.NewSolverError(solver.ErrorTimeout, ID, "submit cancelled", err)
	}
	if !errors.Is(err, api2captcha.ErrApi) {
		return solver.NewSolverError(solver.ErrorServiceOutage, ID, "submit failed", err)
	}

	balance, berr := await(ctx, sdk.GetBalance)
	switch {
	case isDone(berr):
		return solver.NewSolverError(solver.ErrorTimeout, ID, "submit rejected", err)
	case errors.Is(berr, api2captcha.ErrApi):
		return solver.NewSolverError(solver.ErrorAuthentication, ID, "submit rejected, key refused", err)
	case berr != nil:
		return solver.NewSolverError(solver.ErrorServiceOutage, ID, "submit rejected, balance unavailable", err)
	case balance <= 0:
		return solver.NewSolverError(solver.ErrorBalance, ID, "submit rejected, zero balance", err)
	default:
		return solver.NewSolverError(solver.ErrorRateLimited, ID, "submit rejected", err)
	}
}

func resultError(taskID string, err error) error {
	if isDone(err) {
		return solver.NewSolverError(solver.ErrorTimeout, ID, "task "+taskID+" not solved in time", err)
	}
	return solver.NewSolverError(solver.ErrorUnsolvable, ID, "task "+taskID+" failed", err)
}

func isDone(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// await runs a blocking SDK call and gives up on it when ctx ends.
func await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-ch:
		return r.v, r.err
	}
}
