// Package ports defines the interfaces the verification pipeline uses to
// reach its external collaborators. Adapters live in sibling packages; tests
// use the gomock doubles in ports/mocks.
package ports

import (
	"context"
	"time"

	"ptacheck/internal/imei"
	"ptacheck/internal/verification/models"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// Page is the read-only view of the current regulator page used by the
// classifiers. Lookups of absent elements report false, not an error.
type Page interface {
	Exists(ctx context.Context, selector string) (bool, error)
	Visible(ctx context.Context, selector string) (bool, error)
	// WaitVisible blocks until selector is visible or timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) (bool, error)
	Attribute(ctx context.Context, selector, name string) (string, bool, error)
	Text(ctx context.Context, selector string) (string, error)
	BodyText(ctx context.Context) (string, error)
	Location(ctx context.Context) (string, error)
	ElementScreenshot(ctx context.Context, selector string) ([]byte, error)
	// Screenshot captures the viewport as JPEG at the given quality.
	Screenshot(ctx context.Context, quality int) ([]byte, error)
}

// Submission is what the interaction step types into the form.
type Submission struct {
	IMEI imei.IMEI
	// Answer is the solved challenge; empty when no challenge was shown.
	Answer string
	// Token routes Answer into the interactive challenge's response field
	// instead of the text captcha input.
	Token bool
}

// Session is one browser tab bound to a single pipeline run.
type Session interface {
	Page
	Navigate(ctx context.Context, url string) error
	Fill(ctx context.Context, sub Submission) error
	TriggerEvaluation(ctx context.Context) error
	Close() error
}

// SessionFactory opens a fresh browser session per run.
type SessionFactory interface {
	Open(ctx context.Context) (Session, error)
}

// Answer is a solved challenge. TaskID is the vendor's own identifier for
// the job (2captcha captcha id, CapMonster taskId). Solver names the backend
// that produced the answer when it differs from the one called.
type Answer struct {
	Text   string
	TaskID string
	Solver string
}

// SolverBackend is an external captcha solving service.
type SolverBackend interface {
	ID() string
	SolveImage(ctx context.Context, imageBase64 string) (Answer, error)
	SolveInteractive(ctx context.Context, siteKey, pageURL string) (Answer, error)
}

// VerdictStore persists verdicts and answers history queries.
type VerdictStore interface {
	Save(ctx context.Context, v models.Verdict) (models.Record, error)
	History(ctx context.Context, id imei.IMEI, limit int) ([]models.Record, error)
}

// FaultLog records diagnostic rows for failed steps.
type FaultLog interface {
	AppendFault(ctx context.Context, f models.Fault) error
}

// VerdictCache short-circuits repeat lookups of definitive verdicts.
// Get returns sentinel.ErrNotFound on a miss.
type VerdictCache interface {
	Get(ctx context.Context, id imei.IMEI) (models.Verdict, error)
	Put(ctx context.Context, v models.Verdict) error
}

// VerdictPublisher announces completed verdicts to downstream consumers.
type VerdictPublisher interface {
	PublishVerdict(ctx context.Context, v models.Verdict) error
}
