// Package metrics records named performance measurements (binary size
// deltas and the like) for external reporting infrastructure. Values keep
// their recording order so report lines are stable across runs.
package metrics

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Recorder accumulates performance metrics for one harness run.
type Recorder struct {
	runID  string
	logger *logrus.Logger

	mu     sync.Mutex
	values *orderedmap.OrderedMap[string, string]
}

// NewRecorder creates a Recorder with a fresh run identifier.
func NewRecorder(logger *logrus.Logger) *Recorder {
	if logger == nil {
		logger = logrus.New()
	}
	return &Recorder{
		runID:  uuid.NewString(),
		logger: logger,
		values: orderedmap.New[string, string](),
	}
}

// RunID identifies this harness run in external reports.
func (r *Recorder) RunID() string {
	return r.runID
}

// Record stores a metric value, overwriting a previous value of the same
// name but keeping its original position.
func (r *Recorder) Record(name string, value interface{}) {
	rendered := fmt.Sprintf("%v", value)

	r.mu.Lock()
	r.values.Set(name, rendered)
	r.mu.Unlock()

	r.logger.WithFields(logrus.Fields{
		"run":    r.runID,
		"metric": name,
		"value":  rendered,
	}).Info("Performance metric")
}

// RecordBytes records a byte-count metric in the "<n> bytes" form external
// reporting expects.
func (r *Recorder) RecordBytes(name string, n int64) {
	r.Record(name, fmt.Sprintf("%d bytes", n))
}

// Get returns a recorded value and whether it exists.
func (r *Recorder) Get(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values.Get(name)
}

// Len returns the number of recorded metrics.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values.Len()
}

// Flush writes all metrics to w, one "[run] name=value" line each, in
// recording order.
func (r *Recorder) Flush(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for pair := r.values.Oldest(); pair != nil; pair = pair.Next() {
		if _, err := fmt.Fprintf(w, "[%s] %s=%s\n", r.runID, pair.Key, pair.Value); err != nil {
			return fmt.Errorf("failed to flush metrics: %w", err)
		}
	}
	return nil
}
