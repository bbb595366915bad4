// Package challenge detects which anti-automation challenge the regulator page
// presents and carries solved answers back to the pipeline.
package challenge

// Kind tags the challenge variant.
type Kind string

const (
	KindNone         Kind = "none"
	KindImage        Kind = "image"
	KindInteractive  Kind = "interactive"
	KindUnrecognized Kind = "unrecognized"
)

// Challenge is a tagged variant. Only the fields of its Kind are set.
type Challenge struct {
	Kind Kind

	// image
	Image []byte

	// interactive
	SiteKey string
	PageURL string

	// unrecognized
	Reason   string
	Snapshot []byte
}

// None is the page with no challenge shown.
func None() Challenge {
	return Challenge{Kind: KindNone}
}

// Image is a distorted-text image challenge.
func Image(img []byte) Challenge {
	return Challenge{Kind: KindImage, Image: img}
}

// Interactive is a token challenge identified by site key and page URL.
func Interactive(siteKey, pageURL string) Challenge {
	return Challenge{Kind: KindInteractive, SiteKey: siteKey, PageURL: pageURL}
}

// Unrecognized is any page state the classifier could not place.
func Unrecognized(reason string, snapshot []byte) Challenge {
	return Challenge{Kind: KindUnrecognized, Reason: reason, Snapshot: snapshot}
}

// Solvable reports whether the solver step can act on c.
func (c Challenge) Solvable() bool {
	return c.Kind == KindNone || c.Kind == KindImage || c.Kind == KindInteractive
}

// TokenThreshold separates interactive tokens from image-captcha text.
// Answers longer than this are injected as tokens.
const TokenThreshold = 50

// Solution is the solver's answer. SolverID names the backend; TaskID is
// the vendor's identifier for the job, kept for disputes and reporting.
type Solution struct {
	Text     string
	Success  bool
	SolverID string
	TaskID   string
	Error    string
}

// IsToken reports whether Text should go to the interactive response field.
func (s Solution) IsToken() bool {
	return len(s.Text) > TokenThreshold
}

// Failed builds an unsuccessful solution.
func Failed(solverID, msg string) Solution {
	return Solution{SolverID: solverID, Error: msg}
}
