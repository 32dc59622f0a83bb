package graph

import (
	"errors"
	"fmt"

	"github.com/sonicgraph/engine/block"
)

// Sentinel errors for GraphBuilder.Build and wiring calls, per spec.md §7:
// every build-time failure is a plain error wrapping one of these so
// callers can errors.Is against a stable identity.
var (
	ErrUnknownBlock          = errors.New("graph: unknown block id")
	ErrInvalidPort           = errors.New("graph: invalid port index")
	ErrUnknownParameter      = errors.New("graph: unknown parameter name")
	ErrNoSuchModulationOutput = errors.New("graph: no such modulation output")
	ErrCycleDetected         = errors.New("graph: cycle detected")
	ErrDisconnectedSink      = errors.New("graph: no output block connected")
	ErrMissingOutput         = errors.New("graph: graph must have exactly one output block")
	ErrLayoutMismatch        = errors.New("graph: channel layout mismatch")
	ErrInvalidBufferSize     = errors.New("graph: buffer size must be positive")
	ErrInvalidSampleRate     = errors.New("graph: sample rate must be positive")
	ErrUnsupportedChannelCount = errors.New("graph: unsupported channel count")
)

// CycleError carries the block IDs the scheduler could not order: the
// members of a cycle plus every block downstream of one, for
// diagnostics — spec.md §8's testable property
// "cycle detection names both nodes" requires more than a bare sentinel.
type CycleError struct {
	Blocks []block.BlockID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("graph: cycle detected among blocks %v", e.Blocks)
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }
