// Package sample defines the numeric abstraction the rest of the engine is
// generic over: a capability constraint plus the constants and optional
// SIMD companion type that DSP code needs, without committing the engine
// to a single floating-point width.
package sample

import "math"

// Sample is the constraint every DSP type in this module is generic over.
// Both float32 and float64 satisfy it; ordering, equality and the four
// arithmetic operators are native to the constraint's underlying kinds, so
// no method set is needed for those — only the named constants below are
// not expressible as plain Go literals without losing precision per width.
type Sample interface {
	~float32 | ~float64
}

// Constants bundles the named values spec.md §4.1 requires every Sample
// implementation to expose. It is produced once per instantiation via
// ConstantsFor and is cheap enough to keep on the stack or embed in a
// block's prepared state.
type Constants[S Sample] struct {
	Zero       S
	One        S
	Epsilon    S
	Pi         S
	Tau        S
	InvTau     S
	FracPi2    S
	FracPi3    S
	FracPi4    S
	E          S
	Sqrt2      S
	InvSqrt2   S
	Phi        S
}

// ConstantsFor builds the Constants table for a given Sample width. The
// float64 literals are converted once; for S = float32 this rounds to the
// nearest representable value exactly like a Go untyped-constant
// conversion would.
func ConstantsFor[S Sample]() Constants[S] {
	return Constants[S]{
		Zero:     0,
		One:      1,
		Epsilon:  S(epsilonFor[S]()),
		Pi:       S(math.Pi),
		Tau:      S(2 * math.Pi),
		InvTau:   S(1 / (2 * math.Pi)),
		FracPi2:  S(math.Pi / 2),
		FracPi3:  S(math.Pi / 3),
		FracPi4:  S(math.Pi / 4),
		E:        S(math.E),
		Sqrt2:    S(math.Sqrt2),
		InvSqrt2: S(1 / math.Sqrt2),
		Phi:      S(math.Phi),
	}
}

// epsilonFor returns a width-appropriate "close enough" tolerance. float32
// DSP state accumulates error faster than float64, so its epsilon is much
// looser; both are tuned to the magnitudes parameter smoothing and block
// math in this package operate at (roughly unity-scale audio samples).
func epsilonFor[S Sample]() float64 {
	var z S
	switch any(z).(type) {
	case float32:
		return 1e-6
	default:
		return 1e-12
	}
}

// ToFloat64 converts any Sample value to float64, e.g. for logging or
// cross-precision comparisons in tests.
func ToFloat64[S Sample](v S) float64 { return float64(v) }

// FromFloat64 converts a float64 into the target Sample width.
func FromFloat64[S Sample](v float64) S { return S(v) }

// Clamp restricts v to [lo, hi]. Used throughout block processing to
// enforce the "out-of-range parameters are clamped, not rejected" policy
// from spec.md §4.4/§7.
func Clamp[S Sample](v, lo, hi S) S {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FlushDenormal returns zero if v is a single-precision subnormal (exponent
// bits zero, mantissa nonzero) and v unchanged otherwise. Per spec.md §4.4,
// this is a hardware-performance concern, not a correctness one, and is a
// no-op for float64 samples — denormal flushing is only specified for the
// single-precision path.
func FlushDenormal[S Sample](v S) S {
	f, ok := any(v).(float32)
	if !ok {
		return v
	}
	bits := math.Float32bits(f)
	exponent := (bits >> 23) & 0xFF
	mantissa := bits & 0x7FFFFF
	if exponent == 0 && mantissa != 0 {
		return S(0)
	}
	return v
}
