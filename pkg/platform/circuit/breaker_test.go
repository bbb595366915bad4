package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// step is one recorded call in a scripted sequence: outcome 'F' is a failure,
// 'S' a success.
type step struct {
	outcome  byte
	wantOpen bool
	opened   bool
	closed   bool
}

func play(t *testing.T, b *Breaker, steps []step) {
	t.Helper()
	for i, s := range steps {
		var change Change
		switch s.outcome {
		case 'F':
			_, change = b.RecordFailure()
		case 'S':
			_, change = b.RecordSuccess()
		default:
			t.Fatalf("bad outcome %q", s.outcome)
		}
		assert.Equal(t, s.wantOpen, b.IsOpen(), "step %d open", i)
		assert.Equal(t, s.opened, change.Opened, "step %d opened", i)
		assert.Equal(t, s.closed, change.Closed, "step %d closed", i)
	}
}

func TestBreakerSequences(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		steps []step
	}{
		{
			name: "opens on the third consecutive failure",
			opts: []Option{WithFailureThreshold(3)},
			steps: []step{
				{outcome: 'F'},
				{outcome: 'F'},
				{outcome: 'F', wantOpen: true, opened: true},
				{outcome: 'F', wantOpen: true},
			},
		},
		{
			name: "success resets the failure run",
			opts: []Option{WithFailureThreshold(3)},
			steps: []step{
				{outcome: 'F'},
				{outcome: 'F'},
				{outcome: 'S'},
				{outcome: 'F'},
				{outcome: 'F'},
				{outcome: 'F', wantOpen: true, opened: true},
			},
		},
		{
			name: "closes after two successes",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{outcome: 'F', wantOpen: true, opened: true},
				{outcome: 'S', wantOpen: true},
				{outcome: 'S', closed: true},
			},
		},
		{
			name: "failure while open resets the success run",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{outcome: 'F', wantOpen: true, opened: true},
				{outcome: 'S', wantOpen: true},
				{outcome: 'F', wantOpen: true},
				{outcome: 'S', wantOpen: true},
				{outcome: 'S', closed: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			play(t, New("2captcha", tt.opts...), tt.steps)
		})
	}
}

func TestBreakerDefaults(t *testing.T) {
	b := New("capmonster")
	assert.Equal(t, "capmonster", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
}

func TestBreakerReset(t *testing.T) {
	b := New("2captcha", WithFailureThreshold(1))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.Reset()

	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerFallbackFlags(t *testing.T) {
	b := New("2captcha", WithFailureThreshold(1), WithSuccessThreshold(1))

	useFallback, _ := b.RecordFailure()
	assert.True(t, useFallback)

	usePrimary, _ := b.RecordSuccess()
	assert.True(t, usePrimary)
}

func TestBreakerCooldownHalfOpens(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	b := New("2captcha", WithFailureThreshold(1), WithCooldown(time.Minute), WithClock(func() time.Time { return now }))

	b.RecordFailure()
	assert.Equal(t, StateOpen, b.State())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, StateHalfOpen, b.State())
	assert.False(t, b.IsOpen())

	useFallback, _ := b.RecordFailure()
	assert.True(t, useFallback)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerTrip(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	b := New("2captcha", WithFailureThreshold(5), WithSuccessThreshold(1),
		WithCooldown(time.Minute), WithClock(func() time.Time { return now }))

	change := b.Trip()
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())

	assert.False(t, b.Trip().Opened, "already open")

	now = now.Add(2 * time.Minute)
	assert.Equal(t, StateHalfOpen, b.State())

	_, change = b.RecordSuccess()
	assert.True(t, change.Closed)
	assert.Equal(t, StateClosed, b.State())
}
