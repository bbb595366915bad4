package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"ptacheck/internal/verification/dirbs"
	"ptacheck/internal/verification/ports"
)

// ErrNoSubmitControl is returned when no submit button or form was found.
var ErrNoSubmitControl = errors.New("no submit control found")

// Session is one Chrome tab. Methods are serialized; a Session belongs to a
// single run.
type Session struct {
	cfg    Config
	logger *slog.Logger

	mu          sync.Mutex
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	closed      bool
}

var _ ports.Session = (*Session)(nil)

// run executes actions on the tab, bounded by timeout and by the caller's ctx.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("browser session closed")
	}

	runCtx, cancel := context.WithTimeout(s.tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (s *Session) eval(ctx context.Context, script string, out any) error {
	return s.run(ctx, s.cfg.ActionTimeout, chromedp.Evaluate(script, out))
}

// jsString quotes v as a JavaScript string literal.
func jsString(v string) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func (s *Session) Exists(ctx context.Context, selector string) (bool, error) {
	var ok bool
	script := fmt.Sprintf(`document.querySelector(%s) !== null`, jsString(selector))
	if err := s.eval(ctx, script, &ok); err != nil {
		return false, fmt.Errorf("query %s: %w", selector, err)
	}
	return ok, nil
}

const visibleScript = `(function(sel) {
	var el = document.querySelector(sel);
	if (!el) return false;
	var style = window.getComputedStyle(el);
	if (style.display === 'none' || style.visibility === 'hidden' || style.opacity === '0') return false;
	var r = el.getBoundingClientRect();
	return r.width > 0 && r.height > 0;
})(%s)`

func (s *Session) Visible(ctx context.Context, selector string) (bool, error) {
	var ok bool
	if err := s.eval(ctx, fmt.Sprintf(visibleScript, jsString(selector)), &ok); err != nil {
		return false, fmt.Errorf("query %s: %w", selector, err)
	}
	return ok, nil
}

// WaitVisible reports false, not an error, when timeout elapses first.
func (s *Session) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	err := s.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
	switch {
	case err == nil:
		return true, nil
	case ctx.Err() != nil:
		return false, ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		return false, nil
	default:
		return false, fmt.Errorf("wait for %s: %w", selector, err)
	}
}

func (s *Session) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	var res struct {
		Found bool   `json:"found"`
		Value string `json:"value"`
	}
	script := fmt.Sprintf(`(function(sel, name) {
		var el = document.querySelector(sel);
		if (!el || !el.hasAttribute(name)) return {found: false, value: ""};
		return {found: true, value: el.getAttribute(name)};
	})(%s, %s)`, jsString(selector), jsString(name))
	if err := s.eval(ctx, script, &res); err != nil {
		return "", false, fmt.Errorf("read %s[%s]: %w", selector, name, err)
	}
	return res.Value, res.Found, nil
}

func (s *Session) Text(ctx context.Context, selector string) (string, error) {
	var text string
	script := fmt.Sprintf(`(function(sel) {
		var el = document.querySelector(sel);
		return el ? el.innerText : "";
	})(%s)`, jsString(selector))
	if err := s.eval(ctx, script, &text); err != nil {
		return "", fmt.Errorf("read text of %s: %w", selector, err)
	}
	return text, nil
}

func (s *Session) BodyText(ctx context.Context) (string, error) {
	var text string
	if err := s.eval(ctx, `document.body ? document.body.innerText : ""`, &text); err != nil {
		return "", fmt.Errorf("read page text: %w", err)
	}
	return text, nil
}

func (s *Session) Location(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, s.cfg.ActionTimeout, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return url, nil
}

func (s *Session) ElementScreenshot(ctx context.Context, selector string) ([]byte, error) {
	var buf []byte
	err := s.run(ctx, s.cfg.ActionTimeout,
		chromedp.Screenshot(selector, &buf, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("screenshot %s: %w", selector, err)
	}
	return buf, nil
}

// Screenshot captures the viewport as JPEG.
func (s *Session) Screenshot(ctx context.Context, quality int) ([]byte, error) {
	var buf []byte
	err := s.run(ctx, s.cfg.ActionTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatJpeg).
			WithQuality(int64(quality)).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return buf, nil
}

// Navigate loads url and waits for the page to settle.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.settle(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// settle runs a page-changing action, then waits for networkIdle or the idle
// timeout, whichever comes first.
func (s *Session) settle(ctx context.Context, action chromedp.Action) error {
	idle := make(chan struct{}, 1)
	listenCtx, stopListening := context.WithCancel(s.tabCtx)
	defer stopListening()
	chromedp.ListenTarget(listenCtx, func(ev any) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	})

	if err := s.run(ctx, s.cfg.NavigationTimeout, action); err != nil {
		return err
	}

	timer := time.NewTimer(s.cfg.IdleTimeout)
	defer timer.Stop()
	select {
	case <-idle:
	case <-timer.C:
		s.logger.DebugContext(ctx, "network idle not observed", "timeout", s.cfg.IdleTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// injectTokenScript writes the token into the response textarea and hands it
// to the widget callback. The callback comes from data-callback when the page
// declares one, otherwise from the widget registry in ___grecaptcha_cfg,
// which is where explicitly rendered widgets keep it. It returns which
// route was taken: "attribute", "registry" or "none".
const injectTokenScript = `(function(token) {
	var el = document.querySelector('textarea.g-recaptcha-response') || document.getElementById('g-recaptcha-response');
	if (!el) {
		el = document.createElement('textarea');
		el.id = 'g-recaptcha-response';
		el.name = 'g-recaptcha-response';
		el.className = 'g-recaptcha-response';
		el.style.display = 'none';
		(document.querySelector('.g-recaptcha') || document.body).appendChild(el);
	}
	el.value = token;
	el.innerHTML = token;

	var resolve = function(cb) {
		if (typeof cb === 'function') return cb;
		if (typeof cb === 'string' && typeof window[cb] === 'function') return window[cb];
		return null;
	};

	var widget = document.querySelector('.g-recaptcha');
	var fn = resolve(widget && widget.getAttribute('data-callback'));
	if (fn) {
		fn(token);
		return 'attribute';
	}

	var cfg = window.___grecaptcha_cfg;
	if (!cfg || !cfg.clients) return 'none';
	var seen = [];
	var find = function(obj, depth) {
		if (!obj || typeof obj !== 'object' || depth > 4) return null;
		if (obj instanceof Node || seen.indexOf(obj) >= 0) return null;
		seen.push(obj);
		for (var k in obj) {
			var v;
			try { v = obj[k]; } catch (e) { continue; }
			if (k === 'callback') {
				var cb = resolve(v);
				if (cb) return cb;
			}
			var found = find(v, depth + 1);
			if (found) return found;
		}
		return null;
	};
	for (var id in cfg.clients) {
		fn = find(cfg.clients[id], 0);
		if (fn) {
			fn(token);
			return 'registry';
		}
	}
	return 'none';
})(%s)`

// Fill types the IMEI and routes the answer: tokens into the interactive
// response field, text into the captcha input. A token callback may start
// navigation, so injection waits for the page to settle like a click does.
func (s *Session) Fill(ctx context.Context, sub ports.Submission) error {
	err := s.run(ctx, s.cfg.ActionTimeout,
		chromedp.WaitVisible(dirbs.IMEIInput, chromedp.ByQuery),
		chromedp.Clear(dirbs.IMEIInput, chromedp.ByQuery),
		chromedp.SendKeys(dirbs.IMEIInput, sub.IMEI.String(), chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("fill imei: %w", err)
	}

	switch {
	case sub.Answer == "":
		return nil
	case sub.Token:
		var route string
		if err := s.settle(ctx, chromedp.Evaluate(fmt.Sprintf(injectTokenScript, jsString(sub.Answer)), &route)); err != nil {
			return fmt.Errorf("inject challenge token: %w", err)
		}
		s.logger.DebugContext(ctx, "challenge token injected", "callback", route)
		return nil
	default:
		err := s.run(ctx, s.cfg.ActionTimeout,
			chromedp.WaitVisible(dirbs.CaptchaTextInput, chromedp.ByQuery),
			chromedp.Clear(dirbs.CaptchaTextInput, chromedp.ByQuery),
			chromedp.SendKeys(dirbs.CaptchaTextInput, sub.Answer, chromedp.ByQuery),
		)
		if err != nil {
			return fmt.Errorf("fill captcha answer: %w", err)
		}
		return nil
	}
}

const formSubmitScript = `(function() {
	var f = document.querySelector('form');
	if (!f) return false;
	if (typeof f.requestSubmit === 'function') { f.requestSubmit(); } else { f.submit(); }
	return true;
})()`

// TriggerEvaluation clicks the first visible submit button, falling back to
// submitting the form directly.
func (s *Session) TriggerEvaluation(ctx context.Context) error {
	for _, sel := range dirbs.SubmitButtons {
		visible, err := s.Visible(ctx, sel)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		if !visible {
			continue
		}
		if err := s.settle(ctx, chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.DebugContext(ctx, "submit click failed", "selector", sel, "error", err)
			continue
		}
		return nil
	}

	var submitted bool
	err := s.settle(ctx, chromedp.Evaluate(formSubmitScript, &submitted))
	if err != nil {
		return fmt.Errorf("submit form: %w", err)
	}
	if !submitted {
		return ErrNoSubmitControl
	}
	return nil
}

// Close shuts down the tab and its browser process. Safe to call twice.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	err := chromedp.Cancel(s.tabCtx)
	s.tabCancel()
	s.allocCancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}
