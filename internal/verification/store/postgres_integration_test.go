//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ptacheck/internal/imei"
	"ptacheck/internal/verification/models"
	"ptacheck/internal/verification/store"
	"ptacheck/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgresStore(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "imei_verification_results", "error_logs")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestEnsureSchemaIsIdempotent() {
	s.NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) TestSaveAndHistoryRoundTrip() {
	ctx := context.Background()
	at := time.Date(2025, 5, 2, 11, 4, 5, 123456000, time.UTC)
	v := models.Verdict{
		IMEI:   imei.Must("355123456789019"),
		Status: models.StatusCompliant,
		Details: &models.Details{
			RawText:     `This IMEI is of "Pixel 8" device and is compliant`,
			DeviceModel: "Pixel 8",
			Source:      "banner",
		},
		VerifiedAt: at,
	}

	saved, err := s.store.Save(ctx, v)
	s.Require().NoError(err)
	s.NotEmpty(saved.ID)

	history, err := s.store.History(ctx, v.IMEI, 10)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(saved, history[0])

	back, err := history[0].Verdict()
	s.Require().NoError(err)
	s.Equal(v.Status, back.Status)
	s.Equal(v.Details, back.Details)
	s.True(at.Equal(back.VerifiedAt))
}

func (s *PostgresStoreSuite) TestErrorVerdictKeepsMessage() {
	ctx := context.Background()
	v := models.NewErrorVerdict(imei.Must("359871977331199"), "failed to load verification page", time.Now())

	_, err := s.store.Save(ctx, v)
	s.Require().NoError(err)

	history, err := s.store.History(ctx, v.IMEI, 1)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Require().NotNil(history[0].ErrorMessage)
	s.Equal("failed to load verification page", *history[0].ErrorMessage)
	s.Nil(history[0].Details)
}

func (s *PostgresStoreSuite) TestHistoryOrderAndFilter() {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"355123456789019", "359871977331199", "355123456789019"} {
		_, err := s.store.Save(ctx, models.Verdict{
			IMEI:       imei.Must(id),
			Status:     models.StatusNonCompliant,
			VerifiedAt: base.Add(time.Duration(i) * time.Hour),
		})
		s.Require().NoError(err)
	}

	one, err := s.store.History(ctx, imei.Must("355123456789019"), 10)
	s.Require().NoError(err)
	s.Require().Len(one, 2)
	s.Equal(base.Add(2*time.Hour).Format(models.TimestampLayout), one[0].VerificationDate)

	all, err := s.store.History(ctx, imei.IMEI{}, 2)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *PostgresStoreSuite) TestConcurrentSaves() {
	ctx := context.Background()
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Save(ctx, models.Verdict{
				IMEI:       imei.Must("355123456789019"),
				Status:     models.StatusCompliant,
				VerifiedAt: time.Now(),
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	history, err := s.store.History(ctx, imei.Must("355123456789019"), store.MaxHistoryLimit)
	s.Require().NoError(err)
	s.Len(history, writers)
}

func (s *PostgresStoreSuite) TestAppendFault() {
	ctx := context.Background()
	err := s.store.AppendFault(ctx, models.Fault{
		RunID:        "run-1",
		IMEI:         "355123456789019",
		Step:         "classify_challenge",
		ErrorMessage: "classify_challenge: failed to load verification page",
		Context:      map[string]any{"url": "https://dirbs.pta.gov.pk/"},
		RetryCount:   2,
		CreatedAt:    time.Now(),
	})
	s.Require().NoError(err)
	s.Require().NoError(s.store.AppendFault(ctx, models.Fault{RunID: "run-1", Step: "validate_identifier", ErrorMessage: "bad", RetryCount: 3}))

	faults, err := s.store.Faults(ctx, "run-1")
	s.Require().NoError(err)
	s.Require().Len(faults, 2)
	s.Equal("classify_challenge", faults[0].Step)
	s.Equal(2, faults[0].RetryCount)
	s.Equal("https://dirbs.pta.gov.pk/", faults[0].Context["url"])
	s.Empty(faults[1].IMEI)
	s.Nil(faults[1].Context)
}
