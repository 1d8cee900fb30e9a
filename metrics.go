package nkit

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational metrics from tables, indices and
// grouping. Implement it to forward metrics to a monitoring system.
type MetricsCollector interface {
	// RecordRowMutation is called after each row mutation (append, set,
	// insert, delete, set_cell).
	RecordRowMutation(op string, duration time.Duration, err error)

	// RecordIndexBuild is called after an index has scanned its table.
	RecordIndexBuild(rows int, duration time.Duration, err error)

	// RecordLookup is called after each index lookup.
	RecordLookup(found bool)

	// RecordGroup is called after a grouped table has been produced.
	RecordGroup(groups int, duration time.Duration, err error)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRowMutation(string, time.Duration, error) {}
func (NoopMetricsCollector) RecordIndexBuild(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordLookup(bool)                              {}
func (NoopMetricsCollector) RecordGroup(int, time.Duration, error)          {}

// BasicMetricsCollector keeps simple in-memory counters.
type BasicMetricsCollector struct {
	MutationCount      atomic.Int64
	MutationErrors     atomic.Int64
	MutationTotalNanos atomic.Int64
	IndexBuildCount    atomic.Int64
	IndexBuildErrors   atomic.Int64
	IndexedRows        atomic.Int64
	LookupCount        atomic.Int64
	LookupMisses       atomic.Int64
	GroupCount         atomic.Int64
	GroupErrors        atomic.Int64
	GroupsProduced     atomic.Int64
}

// RecordRowMutation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRowMutation(_ string, duration time.Duration, err error) {
	b.MutationCount.Add(1)
	b.MutationTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MutationErrors.Add(1)
	}
}

// RecordIndexBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndexBuild(rows int, _ time.Duration, err error) {
	b.IndexBuildCount.Add(1)
	if err != nil {
		b.IndexBuildErrors.Add(1)
		return
	}
	b.IndexedRows.Add(int64(rows))
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(found bool) {
	b.LookupCount.Add(1)
	if !found {
		b.LookupMisses.Add(1)
	}
}

// RecordGroup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGroup(groups int, _ time.Duration, err error) {
	b.GroupCount.Add(1)
	if err != nil {
		b.GroupErrors.Add(1)
		return
	}
	b.GroupsProduced.Add(int64(groups))
}

// Stats is a point-in-time copy of BasicMetricsCollector counters.
type Stats struct {
	Mutations         int64
	MutationErrors    int64
	AvgMutationMicros float64
	IndexBuilds       int64
	IndexedRows       int64
	Lookups           int64
	LookupMisses      int64
	Groups            int64
	GroupsProduced    int64
}

// GetStats returns a snapshot of the counters.
func (b *BasicMetricsCollector) GetStats() Stats {
	s := Stats{
		Mutations:      b.MutationCount.Load(),
		MutationErrors: b.MutationErrors.Load(),
		IndexBuilds:    b.IndexBuildCount.Load(),
		IndexedRows:    b.IndexedRows.Load(),
		Lookups:        b.LookupCount.Load(),
		LookupMisses:   b.LookupMisses.Load(),
		Groups:         b.GroupCount.Load(),
		GroupsProduced: b.GroupsProduced.Load(),
	}
	if s.Mutations > 0 {
		s.AvgMutationMicros = float64(b.MutationTotalNanos.Load()) / float64(s.Mutations) / 1000
	}
	return s
}
