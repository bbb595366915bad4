package twocaptcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptacheck/internal/verification/challenge"
	"ptacheck/internal/verification/solver"
	"ptacheck/internal/verification/solver/contract"
)

// fakeAPI answers in.php/res.php in the plain-text protocol. readyAfter is
// the number of CAPCHA_NOT_READY polls before the answer is returned.
type fakeAPI struct {
	submitError string
	resultError string
	balance     string
	readyAfter  int32
	answer      string

	polls    atomic.Int32
	lastForm atomic.Value
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	switch r.URL.Path {
	case "/in.php":
		_ = r.ParseForm()
		f.lastForm.Store(r.PostForm)
		if f.submitError != "" {
			_, _ = w.Write([]byte(f.submitError))
			return
		}
		_, _ = w.Write([]byte("OK|7312"))
	case "/res.php":
		q := r.URL.Query()
		if q.Get("action") == "getbalance" {
			if q.Get("key") != "test-key" || f.submitError == "ERROR_WRONG_USER_KEY" {
				_, _ = w.Write([]byte("ERROR_WRONG_USER_KEY"))
				return
			}
			_, _ = w.Write([]byte(f.balance))
			return
		}
		if q.Get("id") != "7312" {
			_, _ = w.Write([]byte("ERROR_WRONG_CAPTCHA_ID"))
			return
		}
		if f.resultError != "" {
			_, _ = w.Write([]byte(f.resultError))
			return
		}
		if f.polls.Add(1) <= f.readyAfter {
			_, _ = w.Write([]byte("CAPCHA_NOT_READY"))
			return
		}
		_, _ = w.Write([]byte("OK|" + f.answer))
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, api http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return newClientFor(t, srv.URL, opts...)
}

func newClientFor(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithBaseURL(baseURL),
		WithPolling(0, time.Millisecond),
	}, opts...)
	c, err := New("test-key", opts...)
	require.NoError(t, err)
	return c
}

// closedServerURL is an address nothing listens on any more.
func closedServerURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

func TestClientContract(t *testing.T) {
	suite := &contract.Suite{
		SolverID: ID,
		Solves: []contract.SolveTest{
			{
				Name:           "image captcha text after polling",
				Backend:        newTestClient(t, &fakeAPI{readyAfter: 2, answer: "x7k2p"}),
				Kind:           challenge.KindImage,
				Image:          "aW1hZ2U=",
				Expected:       "x7k2p",
				ExpectedTaskID: "7312",
			},
			{
				Name:           "interactive token",
				Backend:        newTestClient(t, &fakeAPI{answer: "03AGdBq24-token"}),
				Kind:           challenge.KindInteractive,
				SiteKey:        "6Lc",
				PageURL:        "https://dirbs.pta.gov.pk/",
				Expected:       "03AGdBq24-token",
				ExpectedTaskID: "7312",
			},
		},
		Errors: []contract.ErrorTest{
			{
				Name:          "wrong key is an authentication error",
				Backend:       newTestClient(t, &fakeAPI{submitError: "ERROR_WRONG_USER_KEY"}),
				ExpectedError: solver.ErrorAuthentication,
			},
			{
				Name:          "zero balance",
				Backend:       newTestClient(t, &fakeAPI{submitError: "ERROR_ZERO_BALANCE", balance: "0"}),
				ExpectedError: solver.ErrorBalance,
			},
			{
				Name:          "no free slot with money left is rate limited",
				Backend:       newTestClient(t, &fakeAPI{submitError: "ERROR_NO_SLOT_AVAILABLE", balance: "3.75"}),
				ExpectedError: solver.ErrorRateLimited,
				ExpectedRetry: true,
			},
			{
				Name:          "unsolvable is retryable",
				Backend:       newTestClient(t, &fakeAPI{resultError: "ERROR_CAPTCHA_UNSOLVABLE"}),
				ExpectedError: solver.ErrorUnsolvable,
				ExpectedRetry: true,
			},
			{
				Name:          "unreachable service is an outage",
				Backend:       newClientFor(t, closedServerURL(t)),
				ExpectedError: solver.ErrorServiceOutage,
				ExpectedRetry: true,
			},
			{
				Name:          "never ready times out",
				Backend:       newTestClient(t, &fakeAPI{readyAfter: 1 << 30}, WithTimeout(30*time.Millisecond)),
				ExpectedError: solver.ErrorTimeout,
				ExpectedRetry: true,
			},
		},
	}
	suite.Run(t)
}

func TestSolveInteractive_SendsInvisibleRecaptchaForm(t *testing.T) {
	api := &fakeAPI{answer: "token"}
	c := newTestClient(t, api)

	_, err := c.SolveInteractive(context.Background(), "site-key", "https://dirbs.pta.gov.pk/")
	require.NoError(t, err)

	form := api.lastForm.Load().(url.Values)
	assert.Equal(t, []string{"userrecaptcha"}, form["method"])
	assert.Equal(t, []string{"site-key"}, form["googlekey"])
	assert.Equal(t, []string{"https://dirbs.pta.gov.pk/"}, form["pageurl"])
	assert.Equal(t, []string{"1"}, form["invisible"])
	assert.Equal(t, []string{"test-key"}, form["key"])
}

func TestSolve_TimeoutNamesTask(t *testing.T) {
	c := newTestClient(t, &fakeAPI{readyAfter: 1 << 30}, WithTimeout(30*time.Millisecond))

	ans, err := c.SolveImage(context.Background(), "aW1n")
	require.Error(t, err)
	assert.Equal(t, "7312", ans.TaskID)
	assert.Contains(t, err.Error(), "task 7312")
}

func TestSolve_CallerCancellation(t *testing.T) {
	c := newTestClient(t, &fakeAPI{readyAfter: 1 << 30})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.SolveImage(ctx, "aW1n")
	require.Error(t, err)
	assert.Equal(t, solver.ErrorTimeout, solver.GetCategory(err))
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
	assert.Equal(t, solver.ErrorAuthentication, solver.GetCategory(err))
}
