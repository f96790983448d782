// Package matcher executes a compiled compiler.Program against an input
// string, producing Match results per the search algorithm in spec §4.4.
// Two engines share this package: PikeVM (thread-based NFA simulation,
// used whenever the program has no backreference, with an
// O(states×input) bound per start position; the per-position restart
// search makes a whole failing search O(states×input²)) and Backtracker
// (memoized recursive
// backtracking, the only engine that can execute a StateBackref
// transition). Program.HasBackref selects between them once at compile
// time; callers never choose directly.
package matcher

// Span is a half-open [Start, End) scalar (rune) offset range into the
// searched string, or (-1, -1) for a group that didn't participate in
// the match.
type Span struct {
	Start int
	End   int
}

// Unset reports whether the span represents a group that did not
// participate in the match.
func (s Span) Unset() bool { return s.Start < 0 || s.End < 0 }

// Match is one match of a pattern against a string: the overall span
// plus one span per capturing group (index 0 is reserved for the whole
// match itself and is always set equal to FullMatch).
type Match struct {
	FullMatch Span
	Groups    []Span
}

var unsetSpan = Span{-1, -1}
