package build

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildMetrics(t *testing.T) {
	bm := NewBuildMetrics()
	assert.Equal(t, 0.0, bm.SuccessRate())

	bm.RecordBuild(10*time.Millisecond, false, nil)
	bm.RecordBuild(30*time.Millisecond, true, nil)
	bm.RecordBuild(20*time.Millisecond, false, errors.New("boom"))

	snap := bm.Snapshot()
	assert.Equal(t, int64(3), snap.TotalBuilds)
	assert.Equal(t, int64(2), snap.SuccessfulBuilds)
	assert.Equal(t, int64(1), snap.FailedBuilds)
	assert.Equal(t, int64(1), snap.CacheHits)
	assert.Equal(t, 60*time.Millisecond, snap.TotalDuration)
	assert.Equal(t, 20*time.Millisecond, snap.AverageDuration)
}

func TestBuildMetricsConcurrent(t *testing.T) {
	bm := NewBuildMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bm.RecordBuild(time.Millisecond, false, nil)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), bm.Snapshot().TotalBuilds)
}
