// Package compiler lowers a syntax.Regexp AST into a State Graph (Program):
// an NFA-with-epsilon-transitions-plus-captures, per the spec's compiler
// design. Grounded on the teacher's nfa.Builder/nfa.NFA split — a flat
// state arena indexed by integer ID, so the graph can contain cycles
// (quantifier back-edges) without any ownership problems.
package compiler

import (
	"github.com/gorelite/relite/internal/conv"
	"github.com/gorelite/relite/syntax"
)

// StateID indexes into a Program's state arena.
type StateID uint32

// InvalidState marks an unset transition target.
const InvalidState StateID = 0xFFFFFFFF

// StateKind identifies which fields of a State are meaningful.
type StateKind uint8

const (
	// StateMatch is the program's single accepting state.
	StateMatch StateKind = iota
	// StateConsume reads one input scalar and transitions to Next if the
	// scalar is accepted (see ConsumeKind/Literal/Class).
	StateConsume
	// StateSplit is an ε-transition to two states, tried in order: First
	// is attempted before Second. This ordering is what encodes
	// greedy-vs-lazy and alternation-branch priority.
	StateSplit
	// StateEpsilon is an ε-transition to a single state.
	StateEpsilon
	// StateCaptureStart / StateCaptureEnd record the start/end position
	// of capturing group GroupIndex, then continue to Next.
	StateCaptureStart
	StateCaptureEnd
	// StateAnchor requires a positional predicate on the cursor, then
	// continues to Next without consuming input.
	StateAnchor
	// StateBackref consumes the scalars currently recorded for capturing
	// group GroupIndex, then continues to Next.
	StateBackref
)

// ConsumeKind distinguishes the three atom shapes a StateConsume can test,
// kept as data (rather than an opaque predicate closure) so optimizations
// like literal-prefix extraction can inspect the state graph directly.
type ConsumeKind uint8

const (
	ConsumeLiteral ConsumeKind = iota
	ConsumeAny
	ConsumeClass
)

// AnchorKind identifies a StateAnchor's positional assertion.
type AnchorKind uint8

const (
	AnchorStart AnchorKind = iota
	AnchorEnd
	AnchorWordBoundary
	AnchorNonWordBoundary
)

// State is one node of the State Graph. Only the fields relevant to Kind
// are meaningful; the rest are zero.
type State struct {
	Kind StateKind

	// StateConsume
	ConsumeKind ConsumeKind
	Literal     rune
	Class       *syntax.CharSet

	// StateSplit
	First, Second StateID

	// StateCaptureStart / StateCaptureEnd / StateBackref
	GroupIndex uint32

	// StateAnchor
	Anchor AnchorKind

	// Shared by StateConsume, StateEpsilon, StateCaptureStart,
	// StateCaptureEnd, StateAnchor, StateBackref: where to continue once
	// this state's action (if any) has succeeded.
	Next StateID
}

// Options selects the optional match behaviors from spec §4.4/§6.
type Options struct {
	CaseInsensitive          bool
	Multiline                bool
	DotMatchesLineSeparators bool
}

// Program is the compiled, immutable State Graph produced by Compile. It
// is never mutated after construction and is safe to share and match
// against concurrently from multiple goroutines (per §5).
type Program struct {
	States      []State
	Start       StateID
	Accept      StateID
	NumCaptures int // number of capturing groups (excludes group 0)
	HasBackref  bool
	Options     Options

	// LiteralPrefix is the fixed literal run (if any) that every match
	// must begin with, per the spec's literal-prefix optimization.
	LiteralPrefix []rune

	// AlternationLiterals holds the branch literals when Root was a
	// top-level alternation whose every branch is a plain literal run —
	// the case the ahocorasick-backed prefilter in package literal
	// exploits (see literal/alternation.go).
	AlternationLiterals [][]rune

	// PatternASCII reports whether the source pattern is entirely ASCII,
	// checked once via internal/ascii.IsASCII at compile time. CaseFold
	// uses it to skip the unicode.SimpleFold orbit walk when comparing
	// two scalars that are both themselves ASCII: no non-ASCII scalar
	// ever shares a fold orbit with an ASCII one except through the
	// letter's own case pair, which the cheap ASCII check already covers.
	PatternASCII bool
}

// builder accumulates States for Compile; kept unexported since only the
// Compile entry point in this package should construct a Program.
//
// Because compile uses continuation-passing (each node is compiled with
// its successor state already known), most states are fully known at
// construction time. The exception is a quantifier's Split: its own ID
// must exist before its body is compiled, since the body's back-edge
// points at the split. alloc/fill covers that forward-reference case.
type builder struct {
	states []State
}

func newBuilder() *builder { return &builder{states: make([]State, 0, 16)} }

// alloc reserves a placeholder state and returns its ID.
func (b *builder) alloc() StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, State{})
	return id
}

// fill sets the contents of a previously allocated state.
func (b *builder) fill(id StateID, st State) { b.states[id] = st }

// add allocates and fills a state in one step.
func (b *builder) add(st State) StateID {
	id := b.alloc()
	b.fill(id, st)
	return id
}

// CaseFold reports whether r1 and r2 should be considered equal under the
// program's case-insensitivity option.
func (p *Program) CaseFold(r1, r2 rune) bool {
	if r1 == r2 {
		return true
	}
	if !p.Options.CaseInsensitive {
		return false
	}
	if p.PatternASCII && r1 < 0x80 && r2 < 0x80 {
		return foldEqualASCII(r1, r2)
	}
	return foldEqual(r1, r2)
}

// Matches reports whether scalar r is accepted by the StateConsume state
// st, applying the program's Options.
func (p *Program) Matches(st *State, r rune) bool {
	switch st.ConsumeKind {
	case ConsumeLiteral:
		return p.CaseFold(st.Literal, r)
	case ConsumeAny:
		if !p.Options.DotMatchesLineSeparators && (r == '\n' || r == '\r') {
			return false
		}
		return true
	case ConsumeClass:
		if st.Class.Contains(r) {
			return true
		}
		if p.Options.CaseInsensitive {
			return classContainsFolded(st.Class, r)
		}
		return false
	}
	return false
}
