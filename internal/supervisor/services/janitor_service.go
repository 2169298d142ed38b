// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package services

import (
	"context"
	"time"
)

// DefaultSweepInterval is used when none is configured.
const DefaultSweepInterval = time.Minute

// Sweeper matches *cache.Cache's periodic expiry loop.
type Sweeper interface {
	Run(ctx context.Context, interval time.Duration)
}

// CacheJanitorService runs a cache's expiry sweep under supervision.
type CacheJanitorService struct {
	cache    Sweeper
	interval time.Duration
	name     string
}

// NewCacheJanitorService wraps c. A non-positive interval means DefaultSweepInterval.
func NewCacheJanitorService(c Sweeper, interval time.Duration) *CacheJanitorService {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &CacheJanitorService{
		cache:    c,
		interval: interval,
		name:     "cache-janitor",
	}
}

// Serve implements suture.Service. Run blocks until ctx is done.
func (j *CacheJanitorService) Serve(ctx context.Context) error {
	j.cache.Run(ctx, j.interval)
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logging.
func (j *CacheJanitorService) String() string {
	return j.name
}
