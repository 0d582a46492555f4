package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"claim-assessment-engine/internal/domain/claim"
)

const reportKeyPrefix = "claim:report:"

// ReportCache keeps recent assessment reports in Redis so repeated
// lookups skip the registry.
type ReportCache struct {
	client *Client
	ttl    time.Duration
}

// NewReportCache returns a cache with the given entry TTL.
func NewReportCache(client *Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Put stores a report under its claim identifier.
func (c *ReportCache) Put(ctx context.Context, report *claim.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report for cache: %w", err)
	}
	return c.client.Set(ctx, reportKeyPrefix+report.ClaimID, data, c.ttl)
}

// Get returns the cached report, or (nil, nil) on a cache miss.
func (c *ReportCache) Get(ctx context.Context, claimID string) (*claim.Report, error) {
	data, err := c.client.Get(ctx, reportKeyPrefix+claimID)
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var report claim.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("cached report %s is corrupt: %w", claimID, err)
	}
	return &report, nil
}

// Invalidate drops a cached report.
func (c *ReportCache) Invalidate(ctx context.Context, claimID string) error {
	return c.client.Del(ctx, reportKeyPrefix+claimID)
}
