package perf

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Recorder accumulates durations of one hot operation, typically the
// store's observer dispatch. All methods are safe for concurrent use.
type Recorder struct {
	name      string
	logger    *slog.Logger
	count     int64
	totalDur  int64
	minDur    int64
	maxDur    int64
	slowOps   int64
	threshold time.Duration
}

// Stats is a point-in-time snapshot of a Recorder.
type Stats struct {
	Name          string
	Count         int64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	SlowOps       int64
}

// NewRecorder creates a recorder; durations at or above threshold count
// as slow and are logged individually.
func NewRecorder(name string, logger *slog.Logger, threshold time.Duration) *Recorder {
	return &Recorder{
		name:      name,
		logger:    logger,
		threshold: threshold,
		minDur:    1<<63 - 1,
	}
}

// Record folds one elapsed duration into the stats.
func (r *Recorder) Record(elapsed time.Duration) {
	elapsedNs := elapsed.Nanoseconds()
	atomic.AddInt64(&r.count, 1)
	atomic.AddInt64(&r.totalDur, elapsedNs)

	for {
		minDur := atomic.LoadInt64(&r.minDur)
		if elapsedNs >= minDur {
			break
		}
		if atomic.CompareAndSwapInt64(&r.minDur, minDur, elapsedNs) {
			break
		}
	}
	for {
		maxDur := atomic.LoadInt64(&r.maxDur)
		if elapsedNs <= maxDur {
			break
		}
		if atomic.CompareAndSwapInt64(&r.maxDur, maxDur, elapsedNs) {
			break
		}
	}

	if elapsed >= r.threshold {
		atomic.AddInt64(&r.slowOps, 1)
		if r.logger != nil {
			r.logger.Warn(r.name+"_slow",
				"duration_ms", elapsed.Milliseconds(),
				"threshold_ms", r.threshold.Milliseconds())
		}
	}
}

// Time runs fn and records how long it took.
func (r *Recorder) Time(fn func()) {
	start := time.Now()
	fn()
	r.Record(time.Since(start))
}

// Stats returns the accumulated numbers.
func (r *Recorder) Stats() Stats {
	minDur := atomic.LoadInt64(&r.minDur)
	if minDur == 1<<63-1 {
		minDur = 0
	}
	return Stats{
		Name:          r.name,
		Count:         atomic.LoadInt64(&r.count),
		TotalDuration: time.Duration(atomic.LoadInt64(&r.totalDur)),
		MinDuration:   time.Duration(minDur),
		MaxDuration:   time.Duration(atomic.LoadInt64(&r.maxDur)),
		SlowOps:       atomic.LoadInt64(&r.slowOps),
	}
}

// AvgDuration returns the mean duration over all recorded operations.
func (s Stats) AvgDuration() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Count)
}

// LogStats emits the accumulated numbers at debug level. Call it on
// shutdown to leave a dispatch profile in the log.
func (r *Recorder) LogStats() {
	stats := r.Stats()
	if stats.Count == 0 || r.logger == nil {
		return
	}
	r.logger.Debug(r.name+"_stats",
		"count", stats.Count,
		"total_ms", stats.TotalDuration.Milliseconds(),
		"avg_ms", stats.AvgDuration().Milliseconds(),
		"min_ms", stats.MinDuration.Milliseconds(),
		"max_ms", stats.MaxDuration.Milliseconds(),
		"slow_ops", stats.SlowOps,
	)
}
