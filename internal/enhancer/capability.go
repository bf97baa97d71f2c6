package enhancer

import (
	"fmt"
	"runtime"
)

// ConnectionClass is a coarse classification of the network path to the
// embedding model.
type ConnectionClass string

const (
	ConnectionFast    ConnectionClass = "fast"
	ConnectionSlow    ConnectionClass = "slow"
	ConnectionUnknown ConnectionClass = "unknown"
)

// MinMemoryGB is the default minimum estimated memory required before a
// model load is attempted.
const MinMemoryGB = 2.0

// Signals carries the capability inputs consumed by the gate. They come
// from the hosting environment, not from the enhancer itself.
type Signals struct {
	// HasModelRuntime is the hard requirement: whether the runtime needed
	// to execute the embedding model is present at all.
	HasModelRuntime bool

	// MemoryGB is the estimated available memory. Zero means no direct
	// estimate was available and the core-count heuristic applies.
	MemoryGB float64

	// LogicalCores feeds the memory heuristic when MemoryGB is zero.
	LogicalCores int

	// Connection classifies the network path; slow devices skip the model
	// load entirely, unknown proceeds.
	Connection ConnectionClass
}

// Prober supplies capability signals. The gate runs it at most once per
// session.
type Prober interface {
	Probe() Signals
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func() Signals

// Probe implements Prober.
func (f ProberFunc) Probe() Signals { return f() }

// RuntimeProber derives signals from the local process: the model runtime
// is assumed present (the provider decides for real during warm-up),
// memory comes from the core-count heuristic, and the connection class is
// unknown until proven otherwise.
type RuntimeProber struct{}

// Probe implements Prober.
func (RuntimeProber) Probe() Signals {
	return Signals{
		HasModelRuntime: true,
		LogicalCores:    runtime.NumCPU(),
		Connection:      ConnectionUnknown,
	}
}

// estimateMemoryGB returns the memory estimate, falling back to a
// heuristic keyed on logical core count when no direct figure exists.
func estimateMemoryGB(s Signals) float64 {
	if s.MemoryGB > 0 {
		return s.MemoryGB
	}
	switch {
	case s.LogicalCores >= 8:
		return 8
	case s.LogicalCores >= 4:
		return 4
	default:
		return 2
	}
}

// checkCapability evaluates the gate against the given signals. A nil
// error means the device may attempt the model load; a non-nil error
// carries the human-readable reason for refusing.
func checkCapability(s Signals, minMemoryGB float64) error {
	if !s.HasModelRuntime {
		return fmt.Errorf("%w: model runtime not available", ErrCapability)
	}
	if mem := estimateMemoryGB(s); mem < minMemoryGB {
		return fmt.Errorf("%w: estimated memory %.1fGB below %.1fGB minimum", ErrCapability, mem, minMemoryGB)
	}
	if s.Connection == ConnectionSlow {
		return fmt.Errorf("%w: connection too slow for model download", ErrCapability)
	}
	return nil
}
