package engine

import (
	"math"
	"runtime"
)

// Default pixels per chunk between yields.
const (
	DefaultCacheChunk    = 2000
	DefaultQuantizeChunk = 1000
)

// Phase names the long-running step reporting progress.
type Phase string

const (
	PhaseCaching    Phase = "caching"
	PhaseQuantizing Phase = "quantizing"
)

// ProgressFunc receives progress at chunk boundaries and once at 100%.
type ProgressFunc func(percent int, phase Phase)

// Logger is the subset of *log.Logger the engine writes to.
type Logger interface {
	Printf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// stepper counts processed pixels and fires at chunk boundaries.
type stepper struct {
	total    int
	chunk    int
	done     int
	phase    Phase
	progress ProgressFunc
}

func newStepper(total, chunk int, phase Phase, progress ProgressFunc, fallback int) *stepper {
	if chunk <= 0 {
		chunk = fallback
	}
	return &stepper{total: total, chunk: chunk, phase: phase, progress: progress}
}

// step records one pixel and reports whether a chunk just ended. At a
// chunk end progress is reported and the goroutine yields.
func (s *stepper) step() bool {
	s.done++
	if s.done%s.chunk != 0 {
		return false
	}
	s.report()
	runtime.Gosched()
	return true
}

func (s *stepper) report() {
	if s.progress != nil {
		s.progress(percent(s.done, s.total), s.phase)
	}
}

func (s *stepper) finish() {
	s.done = s.total
	s.report()
}

func percent(done, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
