// Package result reads the regulator's response page and normalizes it into a
// compliance verdict.
package result

import (
	"context"
	"encoding/base64"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"ptacheck/internal/imei"
	"ptacheck/internal/verification/dirbs"
	"ptacheck/internal/verification/models"
	"ptacheck/internal/verification/ports"
	"ptacheck/pkg/requestcontext"
)

// Messages attached to Error verdicts.
const (
	MsgInvalidOrError   = "Invalid IMEI or error in verification"
	MsgUndeterminable   = "Could not determine compliance status from result text"
	MsgNoResultText     = "Could not extract result text"
	MsgNoResultElements = "Could not find result elements on page"
)

const (
	rawTextLimit      = 500
	defaultBannerWait = 10 * time.Second
)

var (
	nonCompliantPattern = regexp.MustCompile(`(?i)\bnon[\s-]?compliant\b`)
	unpaidPattern       = regexp.MustCompile(`(?i)not\s+been\s+paid|tax\b.*\bunpaid|unpaid\b.*\btax`)
	compliantPattern    = regexp.MustCompile(`(?i)\bcompliant\b`)
	invalidPattern      = regexp.MustCompile(`(?i)\binvalid\b`)
	errorPattern        = regexp.MustCompile(`(?i)\berror\b`)

	quotedModelPattern = regexp.MustCompile(`"([^"]+)"`)
	phraseModelPattern = regexp.MustCompile(`(?i)this IMEI is of (.*?) device`)
)

// Evidence is what the page showed: the banner status image and its text.
type Evidence struct {
	ImageSrc string
	Text     string
}

// rule is one row of the ordered classification table.
type rule struct {
	name    string
	matches func(e Evidence) bool
	status  models.Status
	message string
}

// rules are evaluated top to bottom, first match wins.
//
// The status image is the regulator's own signal and outranks text. Among
// text cues the non-compliant qualifier is checked before the bare word
// "compliant", which it contains.
var rules = []rule{
	{name: "ok_image", matches: srcContains(dirbs.CompliantImageToken), status: models.StatusCompliant},
	{name: "blocked_image", matches: srcContains(dirbs.BlockedImageToken), status: models.StatusNonCompliant},
	{name: "non_compliant_text", matches: textMatches(nonCompliantPattern), status: models.StatusNonCompliant},
	{name: "unpaid_text", matches: textMatches(unpaidPattern), status: models.StatusNonCompliant},
	{name: "compliant_text", matches: textMatches(compliantPattern), status: models.StatusCompliant},
	{name: "invalid_text", matches: textMatches(invalidPattern), status: models.StatusError, message: MsgInvalidOrError},
	{name: "error_text", matches: textMatches(errorPattern), status: models.StatusError, message: MsgInvalidOrError},
}

func srcContains(token string) func(Evidence) bool {
	return func(e Evidence) bool { return strings.Contains(e.ImageSrc, token) }
}

func textMatches(re *regexp.Regexp) func(Evidence) bool {
	return func(e Evidence) bool { return re.MatchString(e.Text) }
}

// Classify is total. It returns StatusError with a message when nothing in
// the table matches.
func Classify(e Evidence) (models.Status, string) {
	for _, r := range rules {
		if r.matches(e) {
			return r.status, r.message
		}
	}
	return models.StatusError, MsgUndeterminable
}

// DeviceModel pulls the device model from banner text, if present.
func DeviceModel(text string) string {
	if m := quotedModelPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := phraseModelPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// Classifier extracts a verdict from a loaded result page.
type Classifier struct {
	logger     *slog.Logger
	bannerWait time.Duration
}

// Option configures a Classifier.
type Option func(*Classifier)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// WithBannerWait bounds how long Extract waits for the result banner.
func WithBannerWait(d time.Duration) Option {
	return func(c *Classifier) {
		c.bannerWait = d
	}
}

// NewClassifier creates a result classifier.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		logger:     slog.Default(),
		bannerWait: defaultBannerWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Extract never returns an error: pages it cannot read produce a verdict
// with StatusError and a diagnostic message.
func (c *Classifier) Extract(ctx context.Context, page ports.Page, id imei.IMEI) models.Verdict {
	now := requestcontext.Now(ctx)

	visible, err := page.WaitVisible(ctx, dirbs.ResultBanner, c.bannerWait)
	if err != nil {
		c.logger.WarnContext(ctx, "result banner wait failed", "error", err)
	}
	if err != nil || !visible {
		return c.fromBody(ctx, page, id, now)
	}

	text, err := page.Text(ctx, dirbs.ResultBannerText)
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		return models.Verdict{
			IMEI:         id,
			Status:       models.StatusError,
			ErrorMessage: MsgNoResultText,
			Details:      &models.Details{Snapshot: c.snapshot(ctx, page), Source: "banner"},
			VerifiedAt:   now,
		}
	}

	src, _, err := page.Attribute(ctx, dirbs.ResultBannerImage, "src")
	if err != nil {
		c.logger.DebugContext(ctx, "result banner image unreadable", "error", err)
	}

	status, msg := Classify(Evidence{ImageSrc: src, Text: text})
	c.logger.InfoContext(ctx, "result classified",
		"imei", id.String(),
		"status", status,
		"source", "banner",
	)
	return models.Verdict{
		IMEI:         id,
		Status:       status,
		ErrorMessage: msg,
		Details: &models.Details{
			RawText:     text,
			DeviceModel: DeviceModel(text),
			Snapshot:    c.snapshot(ctx, page),
			Source:      "banner",
		},
		VerifiedAt: now,
	}
}

// fromBody is the secondary path for pages without the banner: the whole
// body text must mention both the identifier and compliance.
func (c *Classifier) fromBody(ctx context.Context, page ports.Page, id imei.IMEI, now time.Time) models.Verdict {
	body, err := page.BodyText(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "page body unreadable", "error", err)
	}
	lower := strings.ToLower(body)
	snapshot := c.snapshot(ctx, page)

	if err == nil && strings.Contains(lower, "compliant") && strings.Contains(body, id.String()) {
		status := models.StatusCompliant
		if nonCompliantPattern.MatchString(body) || unpaidPattern.MatchString(body) {
			status = models.StatusNonCompliant
		}
		c.logger.InfoContext(ctx, "result classified",
			"imei", id.String(),
			"status", status,
			"source", "page_text",
		)
		return models.Verdict{
			IMEI:   id,
			Status: status,
			Details: &models.Details{
				RawText:  truncate(body, rawTextLimit),
				Snapshot: snapshot,
				Source:   "page_text",
			},
			VerifiedAt: now,
		}
	}

	return models.Verdict{
		IMEI:         id,
		Status:       models.StatusError,
		ErrorMessage: MsgNoResultElements,
		Details: &models.Details{
			PageText: truncate(body, rawTextLimit),
			Snapshot: snapshot,
			Source:   "page_text",
		},
		VerifiedAt: now,
	}
}

func (c *Classifier) snapshot(ctx context.Context, page ports.Page) string {
	img, err := page.Screenshot(ctx, dirbs.SnapshotQuality)
	if err != nil || len(img) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(img)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Avoid splitting a multi-byte rune.
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
