package challenge

import (
	"context"
	"fmt"
	"log/slog"

	"ptacheck/internal/verification/dirbs"
	"ptacheck/internal/verification/ports"
)

// rule is one entry of the ordered detection table. ok reports a match; err
// aborts classification.
type rule struct {
	name  string
	match func(ctx context.Context, page ports.Page) (c Challenge, ok bool, err error)
}

// Classifier inspects the loaded page and decides the challenge variant.
type Classifier struct {
	logger *slog.Logger
	rules  []rule
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the logger used for classification diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// NewClassifier builds a classifier with the regulator's detection rules.
//
// Rule order (first match wins):
//  1. image captcha visible
//  2. interactive frame present (needs a site key)
//  3. IMEI input visible with no challenge
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		logger: slog.Default(),
		rules: []rule{
			{name: "image", match: matchImage},
			{name: "interactive", match: matchInteractive},
			{name: "none", match: matchNone},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify is total: read failures and unknown layouts come back as
// KindUnrecognized, never as an error.
func (c *Classifier) Classify(ctx context.Context, page ports.Page) Challenge {
	for _, r := range c.rules {
		ch, ok, err := r.match(ctx, page)
		if err != nil {
			c.logger.WarnContext(ctx, "challenge check failed",
				"rule", r.name,
				"error", err,
			)
			return Unrecognized(fmt.Sprintf("%s check failed: %v", r.name, err), snapshot(ctx, page))
		}
		if ok {
			c.logger.DebugContext(ctx, "challenge classified", "kind", ch.Kind)
			return ch
		}
	}
	return Unrecognized("no challenge or imei input found on page", snapshot(ctx, page))
}

func matchImage(ctx context.Context, page ports.Page) (Challenge, bool, error) {
	visible, err := page.Visible(ctx, dirbs.CaptchaImage)
	if err != nil || !visible {
		return Challenge{}, false, err
	}
	img, err := page.ElementScreenshot(ctx, dirbs.CaptchaImage)
	if err != nil {
		return Challenge{}, false, fmt.Errorf("capture captcha image: %w", err)
	}
	if len(img) == 0 {
		return Unrecognized("captcha image is empty", nil), true, nil
	}
	return Image(img), true, nil
}

func matchInteractive(ctx context.Context, page ports.Page) (Challenge, bool, error) {
	present, err := page.Exists(ctx, dirbs.InteractiveFrame)
	if err != nil || !present {
		return Challenge{}, false, err
	}
	siteKey, ok, err := page.Attribute(ctx, dirbs.InteractiveWidget, dirbs.SiteKeyAttribute)
	if err != nil {
		return Challenge{}, false, fmt.Errorf("read site key: %w", err)
	}
	if !ok || siteKey == "" {
		return Unrecognized("interactive challenge without a site key", snapshot(ctx, page)), true, nil
	}
	url, err := page.Location(ctx)
	if err != nil {
		return Challenge{}, false, fmt.Errorf("read page url: %w", err)
	}
	return Interactive(siteKey, url), true, nil
}

func matchNone(ctx context.Context, page ports.Page) (Challenge, bool, error) {
	visible, err := page.Visible(ctx, dirbs.IMEIInput)
	if err != nil || !visible {
		return Challenge{}, false, err
	}
	return None(), true, nil
}

func snapshot(ctx context.Context, page ports.Page) []byte {
	img, err := page.Screenshot(ctx, dirbs.SnapshotQuality)
	if err != nil {
		return nil
	}
	return img
}
