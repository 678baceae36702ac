// Package utils holds small helpers shared across modules.
package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// Slow thresholds: sweeps and queries beyond these are logged at warn level
const (
	SlowOperation = time.Second
	SlowQuery     = 500 * time.Millisecond
)

// Stopwatch measures one operation and logs its duration when done
type Stopwatch struct {
	start     time.Time
	name      string
	key       string
	log       zerolog.Logger
	slowAfter time.Duration
}

// StartStopwatch starts timing the named operation
func StartStopwatch(name string, log zerolog.Logger) *Stopwatch {
	return &Stopwatch{
		start:     time.Now(),
		name:      name,
		key:       "operation",
		log:       log,
		slowAfter: SlowOperation,
	}
}

// Done logs the elapsed time at debug level, or at warn level when slow.
// fields, when set, adds operation specific fields to the event.
func (s *Stopwatch) Done(fields func(e *zerolog.Event)) time.Duration {
	elapsed := time.Since(s.start)

	slow := elapsed > s.slowAfter
	event := s.log.Debug()
	if slow {
		event = s.log.Warn()
	}

	event = event.Str(s.key, s.name).Dur("duration_ms", elapsed)
	if fields != nil {
		fields(event)
	}

	if slow {
		event.Msg("Slow operation detected")
	} else {
		event.Msg("Operation completed")
	}
	return elapsed
}

// MeasureQuery starts timing a database query. Call the returned func with
// the number of affected rows once the query finished.
func MeasureQuery(name string, log zerolog.Logger) func(rows int64) {
	s := &Stopwatch{
		start:     time.Now(),
		name:      name,
		key:       "query",
		log:       log,
		slowAfter: SlowQuery,
	}
	return func(rows int64) {
		s.Done(func(e *zerolog.Event) { e.Int64("rows_affected", rows) })
	}
}
