package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"funding-tracker/internal/common/logger"
	"funding-tracker/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniCache(t *testing.T) (*OpportunityCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewOpportunityCache(client, 5*time.Minute, logger.NewTestLogger(t)), mr
}

func sampleOpportunity() *models.FundingOpportunity {
	maxAmount := int64(10000000)
	return &models.FundingOpportunity{
		ID:          8,
		Title:       "GCF - Simplified Approval Process",
		Deadline:    models.ParseDeadline("2025-06-30"),
		MaxAmount:   &maxAmount,
		FundingType: models.FundingTypeDon,
		Status:      models.StatusOpen,
		Sectors:     []string{"Climat"},
		CreatedAt:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

// ==========================
// Round trip (miniredis)
// ==========================

func TestOpportunityCache_SetGet(t *testing.T) {
	c, mr := newMiniCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, 8)
	assert.False(t, ok)

	c.Set(ctx, sampleOpportunity())
	assert.True(t, mr.Exists("opportunity:8"))
	assert.Equal(t, 5*time.Minute, mr.TTL("opportunity:8"))

	got, ok := c.Get(ctx, 8)
	require.True(t, ok)
	assert.Equal(t, "GCF - Simplified Approval Process", got.Title)
	assert.True(t, got.Deadline.IsDate())
	assert.Equal(t, int64(10000000), *got.MaxAmount)
}

func TestOpportunityCache_Invalidate(t *testing.T) {
	c, mr := newMiniCache(t)
	ctx := context.Background()

	c.Set(ctx, sampleOpportunity())
	c.Invalidate(ctx, 8)

	assert.False(t, mr.Exists("opportunity:8"))
}

func TestOpportunityCache_ExpiresAfterTTL(t *testing.T) {
	c, mr := newMiniCache(t)
	ctx := context.Background()

	c.Set(ctx, sampleOpportunity())
	mr.FastForward(6 * time.Minute)

	_, ok := c.Get(ctx, 8)
	assert.False(t, ok)
}

func TestOpportunityCache_CorruptEntryIsDropped(t *testing.T) {
	c, mr := newMiniCache(t)
	require.NoError(t, mr.Set("opportunity:8", "{not json"))

	_, ok := c.Get(context.Background(), 8)
	assert.False(t, ok)
	assert.False(t, mr.Exists("opportunity:8"))
}

// ==========================
// Failure paths (redismock)
// ==========================

func TestOpportunityCache_RedisErrorIsAMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewOpportunityCache(client, time.Minute, logger.NewNoOpLogger())

	mock.ExpectGet("opportunity:3").SetErr(errors.New("connection refused"))

	_, ok := c.Get(context.Background(), 3)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpportunityCache_WriteErrorIsSwallowed(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewOpportunityCache(client, time.Minute, logger.NewNoOpLogger())

	mock.Regexp().ExpectSet("opportunity:8", `.*`, time.Minute).SetErr(errors.New("READONLY"))

	assert.NotPanics(t, func() { c.Set(context.Background(), sampleOpportunity()) })
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpportunityCache_NilIsDisabled(t *testing.T) {
	var c *OpportunityCache
	ctx := context.Background()

	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)
	assert.NotPanics(t, func() {
		c.Set(ctx, sampleOpportunity())
		c.Invalidate(ctx, 1)
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "opportunity:42", Key(42))
}
