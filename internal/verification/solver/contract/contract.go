// Package contract holds shared behavioural checks every solver backend must
// pass. Backend tests point them at an httptest double of the vendor API.
package contract

import (
	"context"
	"testing"

	"ptacheck/internal/verification/challenge"
	"ptacheck/internal/verification/ports"
	"ptacheck/internal/verification/solver"
)

// SolveTest is one expected successful solve.
type SolveTest struct {
	Name     string
	Backend  ports.SolverBackend
	Kind     challenge.Kind
	Image    string // base64, for KindImage
	SiteKey  string // for KindInteractive
	PageURL  string // for KindInteractive
	Expected string
	// ExpectedTaskID is the vendor job id the backend must report.
	ExpectedTaskID string
}

// Suite is a collection of contract tests for one backend.
type Suite struct {
	SolverID string
	Solves   []SolveTest
	Errors   []ErrorTest
}

// Run executes every test in the suite.
func (s *Suite) Run(t *testing.T) {
	for _, test := range s.Solves {
		t.Run(test.Name, func(t *testing.T) {
			if got := test.Backend.ID(); got != s.SolverID {
				t.Errorf("expected solver ID %s, got %s", s.SolverID, got)
			}

			answer, err := invoke(context.Background(), test.Backend, test.Kind, test.Image, test.SiteKey, test.PageURL)
			if err != nil {
				t.Fatalf("solve failed: %v", err)
			}
			if answer.Text != test.Expected {
				t.Errorf("expected answer %q, got %q", test.Expected, answer.Text)
			}
			if answer.TaskID != test.ExpectedTaskID {
				t.Errorf("expected task ID %q, got %q", test.ExpectedTaskID, answer.TaskID)
			}
		})
	}
	for _, test := range s.Errors {
		test.Run(t)
	}
}

// ErrorTest checks that backend failures follow the solver taxonomy.
type ErrorTest struct {
	Name          string
	Backend       ports.SolverBackend
	Kind          challenge.Kind
	ExpectedError solver.ErrorCategory
	ExpectedRetry bool
}

// Run executes an error contract test.
func (et *ErrorTest) Run(t *testing.T) {
	t.Run(et.Name, func(t *testing.T) {
		_, err := invoke(context.Background(), et.Backend, et.Kind, "aW1n", "site-key", "https://example.test/")
		if err == nil {
			t.Fatal("expected error but got none")
		}
		if got := solver.GetCategory(err); got != et.ExpectedError {
			t.Errorf("expected error category %s, got %s (%v)", et.ExpectedError, got, err)
		}
		if got := solver.IsRetryable(err); got != et.ExpectedRetry {
			t.Errorf("expected retryable=%v, got %v", et.ExpectedRetry, got)
		}
	})
}

func invoke(ctx context.Context, b ports.SolverBackend, kind challenge.Kind, image, siteKey, pageURL string) (ports.Answer, error) {
	if kind == challenge.KindInteractive {
		return b.SolveInteractive(ctx, siteKey, pageURL)
	}
	return b.SolveImage(ctx, image)
}
