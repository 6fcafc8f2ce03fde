package osd

import "fmt"

// assertf panics on a precondition violation (spec.md §7.4:
// "programming errors... terminate execution (assertion). Never
// silently papered over"), mirroring the hard bounds checks AGG's own
// internal/rasterizer/clip.go performs on malformed geometry rather
// than returning an error value for a caller bug.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

// Error is returned by Composite and its collaborators for the three
// soft failure kinds spec.md §7 enumerates (unsupported format,
// allocation failure, scaler/repack runtime failure). No error carries
// detail beyond what fmt.Errorf's message gives — callers needing
// diagnostics use Cache.DebugInfo instead (spec.md §7).
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

func errorf(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
