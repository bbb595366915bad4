package solver

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"ptacheck/internal/verification/challenge"
	"ptacheck/internal/verification/metrics"
	"ptacheck/internal/verification/ports"
	"ptacheck/internal/verification/ports/mocks"
	"ptacheck/pkg/platform/circuit"
)

type AdapterSuite struct {
	suite.Suite
	ctx     context.Context
	ctrl    *gomock.Controller
	backend *mocks.MockSolverBackend
	adapter *Adapter
}

func TestAdapterSuite(t *testing.T) {
	suite.Run(t, new(AdapterSuite))
}

func (s *AdapterSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.backend = mocks.NewMockSolverBackend(s.ctrl)
	s.backend.EXPECT().ID().Return("2captcha").AnyTimes()

	var err error
	s.adapter, err = NewAdapter(s.backend,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(metrics.NewWithRegisterer(prometheus.NewRegistry())),
	)
	s.Require().NoError(err)
}

func (s *AdapterSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AdapterSuite) TestNoChallengeSucceedsWithoutBackend() {
	sol := s.adapter.Solve(s.ctx, challenge.None())

	s.True(sol.Success)
	s.Empty(sol.Text)
}

func (s *AdapterSuite) TestImageIsSentAsBase64() {
	img := []byte{0xff, 0xd8, 0xff}
	s.backend.EXPECT().SolveImage(gomock.Any(), base64.StdEncoding.EncodeToString(img)).Return(ports.Answer{Text: "x7k2p", TaskID: "7312"}, nil)

	sol := s.adapter.Solve(s.ctx, challenge.Image(img))

	s.True(sol.Success)
	s.Equal("x7k2p", sol.Text)
	s.Equal("2captcha", sol.SolverID)
	s.Equal("7312", sol.TaskID)
	s.False(sol.IsToken())
}

func (s *AdapterSuite) TestInteractiveUsesSiteKeyAndURL() {
	token := "03AGdBq24" + strings.Repeat("x", 400)
	s.backend.EXPECT().SolveInteractive(gomock.Any(), "6Lc-key", "https://dirbs.pta.gov.pk/").Return(ports.Answer{Text: token}, nil)

	sol := s.adapter.Solve(s.ctx, challenge.Interactive("6Lc-key", "https://dirbs.pta.gov.pk/"))

	s.True(sol.Success)
	s.True(sol.IsToken())
}

func (s *AdapterSuite) TestBackendErrorBecomesFailedSolution() {
	s.backend.EXPECT().SolveImage(gomock.Any(), gomock.Any()).
		Return(ports.Answer{TaskID: "88"}, NewSolverError(ErrorBalance, "2captcha", "ERROR_ZERO_BALANCE", nil))

	sol := s.adapter.Solve(s.ctx, challenge.Image([]byte("img")))

	s.False(sol.Success)
	s.Contains(sol.Error, "ERROR_ZERO_BALANCE")
	s.Equal("88", sol.TaskID)
}

func (s *AdapterSuite) TestEmptyAnswerIsFailure() {
	s.backend.EXPECT().SolveImage(gomock.Any(), gomock.Any()).Return(ports.Answer{}, nil)

	sol := s.adapter.Solve(s.ctx, challenge.Image([]byte("img")))

	s.False(sol.Success)
	s.Contains(sol.Error, "empty answer")
}

func (s *AdapterSuite) TestUnrecognizedIsNotSolvable() {
	sol := s.adapter.Solve(s.ctx, challenge.Unrecognized("blank page", nil))

	s.False(sol.Success)
	s.Contains(sol.Error, ErrNoSolvableChallenge.Error())
	s.Contains(sol.Error, "blank page")
}

func (s *AdapterSuite) TestNilBackendRejected() {
	_, err := NewAdapter(nil)
	s.Error(err)
}

// =============================================================================
// Failover
// =============================================================================

type FailoverSuite struct {
	suite.Suite
	ctx      context.Context
	primary  *mocks.MockSolverBackend
	fallback *mocks.MockSolverBackend
	breaker  *circuit.Breaker
	failover *Failover
}

func TestFailoverSuite(t *testing.T) {
	suite.Run(t, new(FailoverSuite))
}

func (s *FailoverSuite) SetupTest() {
	s.ctx = context.Background()
	ctrl := gomock.NewController(s.T())
	s.primary = mocks.NewMockSolverBackend(ctrl)
	s.fallback = mocks.NewMockSolverBackend(ctrl)
	s.primary.EXPECT().ID().Return("capmonster").AnyTimes()
	s.fallback.EXPECT().ID().Return("2captcha").AnyTimes()
	s.breaker = circuit.New("captcha", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))
	s.failover = NewFailover(s.primary, s.fallback, s.breaker,
		WithFailoverLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func (s *FailoverSuite) TestPrimarySuccess() {
	s.primary.EXPECT().SolveImage(gomock.Any(), "b64").Return(ports.Answer{Text: "abc", TaskID: "1"}, nil)

	got, err := s.failover.SolveImage(s.ctx, "b64")

	s.Require().NoError(err)
	s.Equal("abc", got.Text)
	s.Equal("1", got.TaskID)
	s.Equal("capmonster", got.Solver)
}

func (s *FailoverSuite) TestPrimaryFailureFallsBack() {
	s.primary.EXPECT().SolveImage(gomock.Any(), "b64").Return(ports.Answer{}, errors.New("connection reset"))
	s.fallback.EXPECT().SolveImage(gomock.Any(), "b64").Return(ports.Answer{Text: "def", TaskID: "9"}, nil)

	got, err := s.failover.SolveImage(s.ctx, "b64")

	s.Require().NoError(err)
	s.Equal("def", got.Text)
	s.Equal("2captcha", got.Solver)
	s.False(s.breaker.IsOpen())
}

func (s *FailoverSuite) TestOpenCircuitSkipsPrimary() {
	outage := NewSolverError(ErrorServiceOutage, "capmonster", "status 502", nil)
	s.primary.EXPECT().SolveInteractive(gomock.Any(), "k", "u").Return(ports.Answer{}, outage).Times(2)
	s.fallback.EXPECT().SolveInteractive(gomock.Any(), "k", "u").Return(ports.Answer{Text: "token"}, nil).Times(3)

	for i := 0; i < 3; i++ {
		got, err := s.failover.SolveInteractive(s.ctx, "k", "u")
		s.Require().NoError(err)
		s.Equal("token", got.Text)
	}
	s.True(s.breaker.IsOpen())
}

func (s *FailoverSuite) TestAccountFaultOpensCircuitAtOnce() {
	for _, category := range []ErrorCategory{ErrorAuthentication, ErrorBalance} {
		s.Run(string(category), func() {
			s.SetupTest()
			s.primary.EXPECT().SolveImage(gomock.Any(), "b64").
				Return(ports.Answer{}, NewSolverError(category, "capmonster", "rejected", nil)).Times(1)
			s.fallback.EXPECT().SolveImage(gomock.Any(), "b64").Return(ports.Answer{Text: "def"}, nil).Times(2)

			for i := 0; i < 2; i++ {
				got, err := s.failover.SolveImage(s.ctx, "b64")
				s.Require().NoError(err)
				s.Equal("def", got.Text)
			}
			s.True(s.breaker.IsOpen())
		})
	}
}

func (s *FailoverSuite) TestRequestFaultIsNotRetriedOnFallback() {
	rejected := NewSolverError(ErrorBadData, "capmonster", "ERROR_IMAGE_TYPE_NOT_SUPPORTED", nil)
	s.primary.EXPECT().SolveImage(gomock.Any(), "b64").Return(ports.Answer{TaskID: "5"}, rejected)

	got, err := s.failover.SolveImage(s.ctx, "b64")

	s.Require().ErrorIs(err, rejected)
	s.Equal(ErrorBadData, GetCategory(err))
	s.Equal("5", got.TaskID)
	s.Equal("capmonster", got.Solver)
	s.False(s.breaker.IsOpen())
}

func (s *FailoverSuite) TestRetryableFaultsCountTowardThreshold() {
	busy := NewSolverError(ErrorRateLimited, "capmonster", "ERROR_NO_SLOT_AVAILABLE", nil)
	s.Require().True(IsRetryable(busy))
	s.primary.EXPECT().SolveImage(gomock.Any(), "b64").Return(ports.Answer{}, busy)
	s.fallback.EXPECT().SolveImage(gomock.Any(), "b64").Return(ports.Answer{Text: "def"}, nil)

	_, err := s.failover.SolveImage(s.ctx, "b64")

	s.Require().NoError(err)
	s.False(s.breaker.IsOpen(), "one retryable failure stays under the threshold of two")
}
