// Package errors provides the structured error type used across keymapdoc
// and a collector for per-unit failures in batch runs.
package errors

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Failure records one unit (a keymap, or one layer image) that failed.
type Failure struct {
	KeymapID  string
	Layer     string
	Err       error
	Timestamp time.Time
}

// Error implements the error interface.
func (f Failure) Error() string {
	switch {
	case f.Layer != "":
		return fmt.Sprintf("%s/%s: %v", f.KeymapID, f.Layer, f.Err)
	case f.KeymapID != "":
		return fmt.Sprintf("%s: %v", f.KeymapID, f.Err)
	default:
		return f.Err.Error()
	}
}

// Unwrap returns the underlying error.
func (f Failure) Unwrap() error {
	return f.Err
}

// ErrorCollector collects failures from concurrent workers.
type ErrorCollector struct {
	failures []Failure
	mutex    sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		failures: make([]Failure, 0),
	}
}

// Add records a failure for keymapID (and layer, when non-empty).
func (ec *ErrorCollector) Add(keymapID, layer string, err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.failures = append(ec.failures, Failure{
		KeymapID:  keymapID,
		Layer:     layer,
		Err:       err,
		Timestamp: time.Now(),
	})
}

// Failures returns a copy of the collected failures ordered by keymap and
// layer.
func (ec *ErrorCollector) Failures() []Failure {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()

	result := make([]Failure, len(ec.failures))
	copy(result, ec.failures)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].KeymapID != result[j].KeymapID {
			return result[i].KeymapID < result[j].KeymapID
		}
		return result[i].Layer < result[j].Layer
	})
	return result
}

// Count returns the number of failures.
func (ec *ErrorCollector) Count() int {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.failures)
}

// HasErrors returns true if there are any failures.
func (ec *ErrorCollector) HasErrors() bool {
	return ec.Count() > 0
}
