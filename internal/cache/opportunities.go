// Package cache keeps opportunity detail reads in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"funding-tracker/internal/common/logger"
	"funding-tracker/internal/common/metrics"
	"funding-tracker/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "opportunity:"

// Key returns the redis key of an opportunity.
func Key(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}

// OpportunityCache is a read-through cache of single opportunity records.
// A nil *OpportunityCache is valid and caches nothing.
type OpportunityCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewOpportunityCache(client *redis.Client, ttl time.Duration, log logger.Logger) *OpportunityCache {
	return &OpportunityCache{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "opportunity-cache"}),
	}
}

// Get returns the cached record and whether it was found. Redis failures are
// logged and reported as a miss.
func (c *OpportunityCache) Get(ctx context.Context, id int64) (*models.FundingOpportunity, bool) {
	if c == nil {
		return nil, false
	}

	val, err := c.client.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheLookups.WithLabelValues("miss").Inc()
			return nil, false
		}
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("cache read failed", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, false
	}

	var o models.FundingOpportunity
	if err := json.Unmarshal(val, &o); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("discarding unreadable cache entry", map[string]interface{}{"id": id, "error": err.Error()})
		c.Invalidate(ctx, id)
		return nil, false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &o, true
}

// Set stores o under its id for the configured TTL.
func (c *OpportunityCache) Set(ctx context.Context, o *models.FundingOpportunity) {
	if c == nil || o == nil {
		return
	}

	data, err := json.Marshal(o)
	if err != nil {
		c.logger.Warn("cache encode failed", map[string]interface{}{"id": o.ID, "error": err.Error()})
		return
	}
	if err := c.client.Set(ctx, Key(o.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{"id": o.ID, "error": err.Error()})
	}
}

// Invalidate drops the cached record of id.
func (c *OpportunityCache) Invalidate(ctx context.Context, id int64) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, Key(id)).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", map[string]interface{}{"id": id, "error": err.Error()})
	}
}
