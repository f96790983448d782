// Package literal holds optimizations that let a Regex skip straight to
// candidate match positions instead of stepping the full matcher through
// every byte of the input.
package literal

import (
	"github.com/coregx/ahocorasick"

	"github.com/gorelite/relite/compiler"
)

// AlternationPrefilter accelerates a pattern whose AST is a top-level
// alternation of plain literal runs — e.g. `cat|dog|bird` — by running
// an Aho-Corasick automaton over all branches at once instead of
// stepping the compiled Program's thread simulation one input position
// at a time. Grounded on the teacher's UseAhoCorasick strategy, which
// makes the identical trade for patterns with many literal branches.
//
// The Regex facade uses this type's hits directly as final matches (and
// its IsMatch as the final answer) without running the compiled Program.
// A hit carries only the Start/End of the match, never capture groups;
// an eligible pattern has no capturing groups of its own to report
// beyond group 0.
type AlternationPrefilter struct {
	automaton *ahocorasick.Automaton
}

// NewAlternationPrefilter builds a prefilter from prog.AlternationLiterals,
// or returns (nil, false) if prog isn't eligible (no literals, or the
// automaton failed to build).
func NewAlternationPrefilter(prog *compiler.Program) (*AlternationPrefilter, bool) {
	if len(prog.AlternationLiterals) == 0 {
		return nil, false
	}
	builder := ahocorasick.NewBuilder()
	for _, lit := range prog.AlternationLiterals {
		builder.AddPattern([]byte(string(lit)))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, false
	}
	return &AlternationPrefilter{automaton: auto}, true
}

// Find returns the span of the first branch literal occurring at or
// after byte offset at, or ok=false if none occurs.
func (p *AlternationPrefilter) Find(haystack []byte, at int) (start, end int, ok bool) {
	m := p.automaton.Find(haystack, at)
	if m == nil {
		return 0, 0, false
	}
	return m.Start, m.End, true
}

// IsMatch reports whether any branch literal occurs anywhere in haystack.
func (p *AlternationPrefilter) IsMatch(haystack []byte) bool {
	return p.automaton.IsMatch(haystack)
}
