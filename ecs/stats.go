package ecs

import "time"

// WorldStats provides statistics about tick execution.
type WorldStats struct {
	Ticks       int64
	FailedTicks int64
	Deleted     int64
	Entities    int
	SystemCount int
	Systems     []SystemStats
}

// SystemStats provides hook execution statistics for a single system.
type SystemStats struct {
	Name        string
	Components  int
	Preprocess  HookStats
	Process     HookStats
	Postprocess HookStats
}

// HookStats summarizes the calls of one processing hook.
type HookStats struct {
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type hookStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

type systemStatsInternal struct {
	hooks [3]hookStatsInternal
}

func newSystemStats() *systemStatsInternal {
	s := &systemStatsInternal{}
	for i := range s.hooks {
		s.hooks[i].minDuration = time.Duration(1<<63 - 1)
	}
	return s
}

func (s *systemStatsInternal) record(phase Phase, duration time.Duration) {
	idx := int(phase - PhasePreprocess)
	if idx < 0 || idx >= len(s.hooks) {
		return
	}

	stats := &s.hooks[idx]
	stats.executionCount++
	stats.lastDuration = duration
	stats.totalDuration += duration

	if duration < stats.minDuration {
		stats.minDuration = duration
	}
	if duration > stats.maxDuration {
		stats.maxDuration = duration
	}
}

func (h *hookStatsInternal) export() HookStats {
	if h.executionCount == 0 {
		return HookStats{}
	}
	return HookStats{
		ExecutionCount: h.executionCount,
		MinDuration:    h.minDuration,
		MaxDuration:    h.maxDuration,
		AvgDuration:    h.totalDuration / time.Duration(h.executionCount),
		LastDuration:   h.lastDuration,
		TotalDuration:  h.totalDuration,
	}
}

// Stats returns statistics about tick execution.
func (w *World) Stats() *WorldStats {
	stats := &WorldStats{
		Ticks:       w.ticks,
		FailedTicks: w.failedTicks,
		Deleted:     w.deleted,
		Entities:    len(w.live),
		SystemCount: len(w.systems.order),
		Systems:     make([]SystemStats, len(w.systems.order)),
	}

	for i, sys := range w.systems.order {
		internal := w.stats[i]
		stats.Systems[i] = SystemStats{
			Name:        sys.Name(),
			Components:  sys.Len(),
			Preprocess:  internal.hooks[0].export(),
			Process:     internal.hooks[1].export(),
			Postprocess: internal.hooks[2].export(),
		}
	}

	return stats
}
