//go:build integration

package browser_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ptacheck/internal/imei"
	"ptacheck/internal/verification/browser"
	"ptacheck/internal/verification/challenge"
	"ptacheck/internal/verification/dirbs"
	"ptacheck/internal/verification/models"
	"ptacheck/internal/verification/ports"
	"ptacheck/internal/verification/result"
)

const formHTML = `<!doctype html>
<html><body>
<form method="post" action="/check">
  <input id="imei" name="imei" type="text">
  <div class="g-recaptcha" data-sitekey="6Lc-test" data-callback="onSolved"></div>
  <button id="submit" class="btn btn-medium btn--green" type="submit">Check</button>
</form>
<div id="solved"></div>
<script>function onSolved(t) { document.getElementById('solved').innerText = t; }</script>
</body></html>`

// explicitHTML renders its widget the way grecaptcha.render does: no
// data-callback, the callback lives in the client registry and submits.
const explicitHTML = `<!doctype html>
<html><body>
<form method="post" action="/check">
  <input id="imei" name="imei" type="text">
  <div class="g-recaptcha" data-sitekey="6Lc-test"></div>
</form>
<script>
window.___grecaptcha_cfg = {clients: {0: {aa: {bb: {sitekey: "6Lc-test", callback: function(t) {
  document.querySelector('form').requestSubmit();
}}}}}};
</script>
</body></html>`

const resultHTML = `<!doctype html>
<html><body>
<article class="dirbs-banner">
  <img src="/static/ok_512.png">
  <p class="text">IMEI %s is of "Pixel 8" device and is compliant</p>
</article>
</body></html>`

type SessionSuite struct {
	suite.Suite
	server   *httptest.Server
	launcher *browser.Launcher
	session  ports.Session
	ctx      context.Context
	cancel   context.CancelFunc
}

func TestSessionSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if _, err := exec.LookPath("google-chrome"); err != nil {
		if _, err := exec.LookPath("chromium"); err != nil {
			t.Skip("chrome not installed")
		}
	}
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupSuite() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, formHTML)
	})
	mux.HandleFunc("GET /explicit", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, explicitHTML)
	})
	mux.HandleFunc("POST /check", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		fmt.Fprintf(w, resultHTML, r.FormValue("imei"))
	})
	s.server = httptest.NewServer(mux)

	cfg := browser.DefaultConfig()
	cfg.IdleTimeout = 2 * time.Second
	s.launcher = browser.NewLauncher(cfg, browser.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func (s *SessionSuite) TearDownSuite() {
	s.server.Close()
}

func (s *SessionSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 90*time.Second)
	var err error
	s.session, err = s.launcher.Open(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(s.session.Navigate(s.ctx, s.server.URL+"/"))
}

func (s *SessionSuite) TearDownTest() {
	s.NoError(s.session.Close())
	s.NoError(s.session.Close())
	s.cancel()
}

func (s *SessionSuite) TestElementQueries() {
	visible, err := s.session.Visible(s.ctx, dirbs.IMEIInput)
	s.Require().NoError(err)
	s.True(visible)

	exists, err := s.session.Exists(s.ctx, dirbs.CaptchaImage)
	s.Require().NoError(err)
	s.False(exists)

	key, ok, err := s.session.Attribute(s.ctx, dirbs.InteractiveWidget, dirbs.SiteKeyAttribute)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("6Lc-test", key)

	shot, err := s.session.Screenshot(s.ctx, dirbs.SnapshotQuality)
	s.Require().NoError(err)
	s.Equal([]byte{0xff, 0xd8}, shot[:2], "jpeg magic")

	appeared, err := s.session.WaitVisible(s.ctx, dirbs.ResultBanner, 200*time.Millisecond)
	s.Require().NoError(err)
	s.False(appeared)
}

func (s *SessionSuite) TestClassifyFillSubmitExtract() {
	c := challenge.NewClassifier().Classify(s.ctx, s.session)
	s.Equal(challenge.KindNone, c.Kind)

	token := strings.Repeat("tok", 30)
	s.Require().NoError(s.session.Fill(s.ctx, ports.Submission{
		IMEI:   imei.Must("355123456789019"),
		Answer: token,
		Token:  true,
	}))

	injected, err := s.session.Text(s.ctx, dirbs.InteractiveResponse)
	s.Require().NoError(err)
	s.Equal(token, injected)

	called, err := s.session.Text(s.ctx, "#solved")
	s.Require().NoError(err)
	s.Equal(token, called, "data-callback receives the token")

	s.Require().NoError(s.session.TriggerEvaluation(s.ctx))

	v := result.NewClassifier().Extract(s.ctx, s.session, imei.Must("355123456789019"))
	s.Equal(models.StatusCompliant, v.Status)
	s.Equal("Pixel 8", v.Details.DeviceModel)
	s.NotEmpty(v.Details.Snapshot)
}

func (s *SessionSuite) TestTokenReachesRegistryCallback() {
	s.Require().NoError(s.session.Navigate(s.ctx, s.server.URL+"/explicit"))

	s.Require().NoError(s.session.Fill(s.ctx, ports.Submission{
		IMEI:   imei.Must("355123456789019"),
		Answer: strings.Repeat("tok", 30),
		Token:  true,
	}))

	// The callback submitted the form and Fill waited for the result page.
	v := result.NewClassifier().Extract(s.ctx, s.session, imei.Must("355123456789019"))
	s.Equal(models.StatusCompliant, v.Status)
}
