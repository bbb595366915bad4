package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptacheck/internal/imei"
	"ptacheck/internal/verification/models"
	"ptacheck/pkg/platform/sentinel"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	id := imei.Must("355123456789019")
	now := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

	c := NewMemoryCache(time.Hour)
	c.now = func() time.Time { return now }

	_, err := c.Get(ctx, id)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	v := models.Verdict{IMEI: id, Status: models.StatusCompliant, VerifiedAt: now}
	require.NoError(t, c.Put(ctx, v))

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	now = now.Add(time.Hour)
	_, err = c.Get(ctx, id)
	assert.ErrorIs(t, err, sentinel.ErrNotFound, "entry expires at ttl")
}

func TestMemoryCacheRejectsErrorVerdicts(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	err := c.Put(context.Background(), models.NewErrorVerdict(imei.Must("355123456789019"), "x", time.Now()))
	assert.ErrorIs(t, err, ErrNotDefinitive)
}
