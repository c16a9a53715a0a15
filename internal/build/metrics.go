package build

import (
	"sync"
	"time"
)

// BuildMetrics tracks keymap build outcomes over the lifetime of a Builder.
type BuildMetrics struct {
	totalBuilds      int64
	successfulBuilds int64
	failedBuilds     int64
	cacheHits        int64
	totalDuration    time.Duration
	mutex            sync.RWMutex
}

// MetricsSnapshot is a point-in-time copy of BuildMetrics.
type MetricsSnapshot struct {
	TotalBuilds      int64
	SuccessfulBuilds int64
	FailedBuilds     int64
	CacheHits        int64
	AverageDuration  time.Duration
	TotalDuration    time.Duration
}

// NewBuildMetrics creates a new build metrics tracker.
func NewBuildMetrics() *BuildMetrics {
	return &BuildMetrics{}
}

// RecordBuild records the outcome of one keymap build.
func (bm *BuildMetrics) RecordBuild(duration time.Duration, cacheHit bool, err error) {
	bm.mutex.Lock()
	defer bm.mutex.Unlock()

	bm.totalBuilds++
	bm.totalDuration += duration

	if cacheHit {
		bm.cacheHits++
	}

	if err != nil {
		bm.failedBuilds++
	} else {
		bm.successfulBuilds++
	}
}

// Snapshot returns the current metrics.
func (bm *BuildMetrics) Snapshot() MetricsSnapshot {
	bm.mutex.RLock()
	defer bm.mutex.RUnlock()

	s := MetricsSnapshot{
		TotalBuilds:      bm.totalBuilds,
		SuccessfulBuilds: bm.successfulBuilds,
		FailedBuilds:     bm.failedBuilds,
		CacheHits:        bm.cacheHits,
		TotalDuration:    bm.totalDuration,
	}
	if bm.totalBuilds > 0 {
		s.AverageDuration = bm.totalDuration / time.Duration(bm.totalBuilds)
	}
	return s
}

// SuccessRate returns the success rate as a percentage.
func (bm *BuildMetrics) SuccessRate() float64 {
	bm.mutex.RLock()
	defer bm.mutex.RUnlock()

	if bm.totalBuilds == 0 {
		return 0.0
	}

	return float64(bm.successfulBuilds) / float64(bm.totalBuilds) * 100.0
}
