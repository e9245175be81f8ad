package runtime

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// QueryStats holds execution statistics of a StatsDB.
type QueryStats struct {
	TotalQueries  atomic.Int64
	TotalExecs    atomic.Int64
	TotalDuration atomic.Int64 // nanoseconds
	SlowQueries   atomic.Int64
	Errors        atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset sets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time copy of QueryStats.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// AvgDuration returns the average duration of a statement.
func (s StatsSnapshot) AvgDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf("queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.AvgDuration(), s.SlowQueries, s.Errors)
}

// SlowQueryHook is called for statements slower than the threshold.
type SlowQueryHook func(query string, args []any, d time.Duration)

// StatsDB wraps a Database with statistics collection.
type StatsDB struct {
	Database
	stats         *QueryStats
	mu            sync.RWMutex
	slowThreshold time.Duration
	slowHook      SlowQueryHook
}

// StatsOption configures a StatsDB.
type StatsOption func(*StatsDB)

// WithSlowThreshold sets the duration above which a statement is slow.
// The default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDB) { s.slowThreshold = d }
}

// WithSlowQueryHook sets the function called for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDB) { s.slowHook = hook }
}

// WithSlowQueryLog logs slow statements to l at warn level.
func WithSlowQueryLog(l *slog.Logger) StatsOption {
	if l == nil {
		l = slog.Default()
	}
	return WithSlowQueryHook(func(query string, args []any, d time.Duration) {
		l.Warn("runtime: slow query", "duration", d, "query", query, "args", args)
	})
}

// NewStatsDB wraps db.
func NewStatsDB(db Database, opts ...StatsOption) *StatsDB {
	s := &StatsDB{Database: db, stats: &QueryStats{}, slowThreshold: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the collected statistics.
func (s *StatsDB) QueryStats() *QueryStats { return s.stats }

// SetSlowThreshold updates the slow statement threshold.
func (s *StatsDB) SetSlowThreshold(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slowThreshold = d
}

// Exec implements Database.
func (s *StatsDB) Exec(query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := s.Database.Exec(query, args...)
	s.record(query, args, start, err, false)
	return res, err
}

// Query implements Database.
func (s *StatsDB) Query(query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := s.Database.Query(query, args...)
	s.record(query, args, start, err, true)
	return rows, err
}

func (s *StatsDB) record(query string, args []any, start time.Time, err error, isQuery bool) {
	d := time.Since(start)
	if isQuery {
		s.stats.TotalQueries.Add(1)
	} else {
		s.stats.TotalExecs.Add(1)
	}
	s.stats.TotalDuration.Add(int64(d))
	if err != nil {
		s.stats.Errors.Add(1)
	}
	s.mu.RLock()
	threshold, hook := s.slowThreshold, s.slowHook
	s.mu.RUnlock()
	if d > threshold {
		s.stats.SlowQueries.Add(1)
		if hook != nil {
			hook(query, args, d)
		}
	}
}

// DebugDB logs every statement before running it.
type DebugDB struct {
	Database
	log *slog.Logger
}

// NewDebugDB wraps db, logging to l at debug level. A nil logger uses
// slog.Default.
func NewDebugDB(db Database, l *slog.Logger) *DebugDB {
	if l == nil {
		l = slog.Default()
	}
	return &DebugDB{Database: db, log: l}
}

// Exec implements Database.
func (d *DebugDB) Exec(query string, args ...any) (sql.Result, error) {
	d.log.Debug("runtime: exec", "query", query, "args", args)
	return d.Database.Exec(query, args...)
}

// Query implements Database.
func (d *DebugDB) Query(query string, args ...any) (*sql.Rows, error) {
	d.log.Debug("runtime: query", "query", query, "args", args)
	return d.Database.Query(query, args...)
}

var (
	_ Database = (*StatsDB)(nil)
	_ Database = (*DebugDB)(nil)
)
