package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"ptacheck/internal/imei"
	"ptacheck/internal/verification/cache"
	"ptacheck/internal/verification/challenge"
	"ptacheck/internal/verification/models"
	"ptacheck/internal/verification/orchestrator"
	"ptacheck/internal/verification/pagetest"
	"ptacheck/internal/verification/ports/mocks"
	"ptacheck/internal/verification/registry"
	"ptacheck/internal/verification/result"
	"ptacheck/internal/verification/solver"
	"ptacheck/internal/verification/store"
	dErrors "ptacheck/pkg/domain-errors"
	"ptacheck/pkg/requestcontext"
)

const testIMEI = "355123456789019"

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	page      *pagetest.Page
	factory   *pagetest.Factory
	store     *store.MemoryStore
	cache     *cache.MemoryCache
	publisher *mocks.MockVerdictPublisher
	logger    *slog.Logger
	keys      []registry.Key
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))
	s.ctrl = gomock.NewController(s.T())
	s.page = &pagetest.Page{Shot: []byte("jpeg"), OnNavigate: pagetest.FormPage}
	s.factory = &pagetest.Factory{Page: s.page}
	s.store = store.NewMemoryStore()
	s.cache = cache.NewMemoryCache(time.Hour)
	s.publisher = mocks.NewMockVerdictPublisher(s.ctrl)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.keys = nil

	reg := registry.New(s.build, registry.WithLogger(s.logger))
	s.service = New(reg, s.store, Defaults{Headless: true, MaxRetries: 1, RunTimeout: time.Minute},
		WithLogger(s.logger),
		WithCache(s.cache),
		WithPublisher(s.publisher),
	)
}

func (s *ServiceSuite) build(_ context.Context, key registry.Key) (*orchestrator.Orchestrator, error) {
	s.keys = append(s.keys, key)
	backend := mocks.NewMockSolverBackend(s.ctrl)
	backend.EXPECT().ID().Return("2captcha").AnyTimes()
	adapter, err := solver.NewAdapter(backend, solver.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	return orchestrator.New(orchestrator.Config{MaxRetries: key.MaxRetries}, orchestrator.Deps{
		Validator:  imei.Validator{},
		Sessions:   s.factory,
		Challenges: challenge.NewClassifier(challenge.WithLogger(s.logger)),
		Solver:     adapter,
		Results:    result.NewClassifier(result.WithLogger(s.logger), result.WithBannerWait(time.Millisecond)),
		Store:      s.store,
	}, orchestrator.WithLogger(s.logger), orchestrator.WithFaultLog(s.store))
}

// =============================================================================
// Verify
// =============================================================================

func (s *ServiceSuite) TestDefinitiveVerdictIsCachedAndPublished() {
	s.page.OnTrigger = pagetest.ResultPage("/images/ok_512.png", "compliant")
	s.publisher.EXPECT().PublishVerdict(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, v models.Verdict) error {
			s.Equal(models.StatusCompliant, v.Status)
			s.Equal(testIMEI, v.IMEI.String())
			return nil
		}).Times(1)

	res, err := s.service.Verify(s.ctx, VerifyRequest{IMEI: testIMEI})
	s.Require().NoError(err)
	s.True(res.Success)
	s.Equal("IMEI verification completed", res.Message)

	again, err := s.service.Verify(s.ctx, VerifyRequest{IMEI: testIMEI})
	s.Require().NoError(err)
	s.True(again.Success)
	s.Equal(models.StatusCompliant, again.Status)
	s.Equal("IMEI verification completed (cached)", again.Message)
	s.Equal(1, s.factory.Opens, "second call must not reach the site")
}

func (s *ServiceSuite) TestSkipCacheRunsAgain() {
	s.page.OnTrigger = pagetest.ResultPage("/images/ok_512.png", "compliant")
	s.publisher.EXPECT().PublishVerdict(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	_, err := s.service.Verify(s.ctx, VerifyRequest{IMEI: testIMEI})
	s.Require().NoError(err)
	_, err = s.service.Verify(s.ctx, VerifyRequest{IMEI: testIMEI, SkipCache: true})
	s.Require().NoError(err)
	s.Equal(2, s.factory.Opens)

	records, err := s.service.History(s.ctx, testIMEI, 0)
	s.Require().NoError(err)
	s.Len(records, 2)
}

func (s *ServiceSuite) TestFailedRunIsNeitherCachedNorPublished() {
	s.page.NavigateErr = errors.New("net::ERR_NAME_NOT_RESOLVED")

	res, err := s.service.Verify(s.ctx, VerifyRequest{IMEI: testIMEI})
	s.Require().NoError(err)
	s.False(res.Success)
	s.Equal(models.StatusError, res.Status)
	s.Equal(1, res.RetryCount)

	_, err = s.cache.Get(s.ctx, imei.Must(testIMEI))
	s.Error(err)
}

func (s *ServiceSuite) TestPublishFailureDoesNotFailVerify() {
	s.page.OnTrigger = pagetest.ResultPage("/images/blocked_512.png", "blocked")
	s.publisher.EXPECT().PublishVerdict(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	res, err := s.service.Verify(s.ctx, VerifyRequest{IMEI: testIMEI})
	s.Require().NoError(err)
	s.True(res.Success)
	s.Equal(models.StatusNonCompliant, res.Status)
}

func (s *ServiceSuite) TestOverridesSelectPipeline() {
	s.page.OnTrigger = pagetest.ResultPage("/images/ok_512.png", "compliant")
	s.publisher.EXPECT().PublishVerdict(gomock.Any(), gomock.Any()).Return(nil)
	headless := false
	retries := 5

	_, err := s.service.Verify(s.ctx, VerifyRequest{IMEI: testIMEI, Headless: &headless, MaxRetries: &retries})
	s.Require().NoError(err)
	s.Equal([]registry.Key{{Headless: false, MaxRetries: 5}}, s.keys)
}

func (s *ServiceSuite) TestRetriesOutOfRangeRejected() {
	for _, n := range []int{-1, 11} {
		retries := n
		_, err := s.service.Verify(s.ctx, VerifyRequest{IMEI: testIMEI, MaxRetries: &retries})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation), "max_retries=%d", n)
	}
	s.Empty(s.keys)
}

func (s *ServiceSuite) TestInvalidIMEIReportedInResult() {
	res, err := s.service.Verify(s.ctx, VerifyRequest{IMEI: "12345"})
	s.Require().NoError(err)
	s.False(res.Success)
	s.Equal("Invalid IMEI format", res.Message)
	s.Equal(0, s.factory.Opens)
}

// =============================================================================
// History
// =============================================================================

func (s *ServiceSuite) TestHistoryRejectsBadIMEI() {
	_, err := s.service.History(s.ctx, "35512345678901X", 10)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestHistoryEmptyIsNotNil() {
	records, err := s.service.History(s.ctx, "", 10)
	s.Require().NoError(err)
	s.NotNil(records)
	s.Empty(records)
}

type failingOrchestrators struct{}

func (failingOrchestrators) Get(context.Context, registry.Key) (*orchestrator.Orchestrator, error) {
	return nil, errors.New("chrome not found")
}

func TestVerifyPipelineUnavailable(t *testing.T) {
	svc := New(failingOrchestrators{}, store.NewMemoryStore(), Defaults{MaxRetries: 3})

	_, err := svc.Verify(context.Background(), VerifyRequest{IMEI: testIMEI})

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

type failingHistory struct {
	*store.MemoryStore
}

func (failingHistory) History(context.Context, imei.IMEI, int) ([]models.Record, error) {
	return nil, errors.New("connection refused")
}

func TestHistoryStoreFailure(t *testing.T) {
	svc := New(failingOrchestrators{}, failingHistory{store.NewMemoryStore()}, Defaults{})

	_, err := svc.History(context.Background(), testIMEI, 10)

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}
