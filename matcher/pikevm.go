package matcher

import (
	"github.com/gorelite/relite/compiler"
	"github.com/gorelite/relite/internal/sparse"
)

// PikeVM is a thread-based NFA simulator: at every input position it
// maintains the set of program states reachable without consuming more
// input (a "thread" per state), so no state is ever explored twice at
// the same position. That per-position dedup is what gives the engine
// its O(states×input) bound regardless of how many ways a quantifier
// could otherwise re-enter its own body (spec §4.4, scenario 7: `(a*)*c`
// must not blow up).
//
// PikeVM never executes a StateBackref; compiler.Program.HasBackref
// steers those patterns to Backtracker instead.
type PikeVM struct {
	prog *compiler.Program

	queue     []thread
	nextQueue []thread
	visited   *sparse.SparseSet
}

type thread struct {
	state    compiler.StateID
	captures cowCaptures
}

// NewPikeVM returns a PikeVM for prog, pre-sizing its scratch state to
// prog's state count.
func NewPikeVM(prog *compiler.Program) *PikeVM {
	capacity := len(prog.States)
	if capacity < 16 {
		capacity = 16
	}
	return &PikeVM{
		prog:      prog,
		queue:     make([]thread, 0, capacity),
		nextQueue: make([]thread, 0, capacity),
		visited:   sparse.NewSparseSet(uint32(capacity)),
	}
}

// FindFrom returns the leftmost match at or after from, per the
// per-position restart search of spec §4.4: try an anchored attempt at
// each successive start position until one succeeds or input is
// exhausted. Each individual attempt is O(states×input), so a search
// that fails at every start position costs O(states×input²) in total.
// Within one start, the match chosen is the highest-priority one per the
// program's Split edge order (see findAt), not necessarily the longest.
func (vm *PikeVM) FindFrom(input []rune, from int) *Match {
	for start := from; start <= len(input); start++ {
		if m := vm.findAt(input, start); m != nil {
			return m
		}
	}
	return nil
}

// FindAt runs a single anchored attempt at exactly start, or nil if the
// program does not match there. Exposed for callers (the literal-prefix
// and alternation-prefilter optimizations) that have already narrowed
// candidate start positions and want to skip the per-position restart
// loop FindFrom otherwise performs.
func (vm *PikeVM) FindAt(input []rune, start int) *Match {
	return vm.findAt(input, start)
}

// FindAll returns every non-overlapping match in input, left to right.
func (vm *PikeVM) FindAll(input []rune) []Match {
	var out []Match
	pos := 0
	for pos <= len(input) {
		m := vm.FindFrom(input, pos)
		if m == nil {
			break
		}
		out = append(out, *m)
		if m.FullMatch.End > pos {
			pos = m.FullMatch.End
		} else {
			pos++
		}
	}
	return out
}

// findAt runs one anchored attempt starting exactly at start, returning
// the highest-priority match beginning there. Greedy-vs-lazy and
// alternation priority are already baked into the program's Split edge
// order: a recorded match is replaced only when a thread queued ahead of
// it reaches StateMatch at a later position, so a lazy quantifier or an
// earlier alternation branch can yield a shorter match than possible.
func (vm *PikeVM) findAt(input []rune, start int) *Match {
	vm.queue = vm.queue[:0]
	vm.visited.Clear()
	vm.queue = vm.addThread(vm.queue, thread{state: vm.prog.Start, captures: newCOWCaptures(vm.prog.NumCaptures)}, input, start)

	var lastMatch []int
	lastMatchPos := -1

	for pos := start; ; pos++ {
		matchIdx := -1
		for i, t := range vm.queue {
			if vm.prog.States[t.state].Kind == compiler.StateMatch {
				matchIdx = i
				break
			}
		}

		if matchIdx != -1 {
			lastMatchPos = pos
			lastMatch = vm.queue[matchIdx].captures.copyData()

			// Every thread queued after the match is strictly
			// lower-priority than it (thread order encodes
			// greedy/lazy and alternation priority), so it can never
			// produce a better answer than the one just recorded —
			// only a higher-priority thread still running could.
			// Drop the rest so it isn't stepped further, and stop
			// outright if the match thread was already the highest
			// priority one.
			if matchIdx == 0 {
				break
			}
			vm.queue = vm.queue[:matchIdx]
		}

		if len(vm.queue) == 0 || pos >= len(input) {
			break
		}

		r := input[pos]
		vm.visited.Clear()
		vm.nextQueue = vm.nextQueue[:0]
		for _, t := range vm.queue {
			vm.step(t, r, input, pos+1)
		}
		vm.queue, vm.nextQueue = vm.nextQueue, vm.queue[:0]
	}

	if lastMatchPos == -1 {
		return nil
	}
	return buildMatch(vm.prog.NumCaptures, lastMatch, start, lastMatchPos)
}

// addThread follows epsilon transitions (splits, captures, anchors) from
// t.state, appending every StateConsume/StateMatch state it reaches to
// dst, deduplicated by vm.visited so a state already queued this
// generation is never explored twice. Returns the extended dst.
func (vm *PikeVM) addThread(dst []thread, t thread, input []rune, pos int) []thread {
	if vm.visited.Contains(uint32(t.state)) {
		return dst
	}
	vm.visited.Insert(uint32(t.state))

	st := &vm.prog.States[t.state]
	switch st.Kind {
	case compiler.StateMatch, compiler.StateConsume:
		return append(dst, t)

	case compiler.StateEpsilon:
		return vm.addThread(dst, thread{state: st.Next, captures: t.captures}, input, pos)

	case compiler.StateSplit:
		dst = vm.addThread(dst, thread{state: st.First, captures: t.captures.clone()}, input, pos)
		return vm.addThread(dst, thread{state: st.Second, captures: t.captures.clone()}, input, pos)

	case compiler.StateCaptureStart:
		caps := t.captures.update(int(st.GroupIndex)*2, pos)
		return vm.addThread(dst, thread{state: st.Next, captures: caps}, input, pos)

	case compiler.StateCaptureEnd:
		caps := t.captures.update(int(st.GroupIndex)*2+1, pos)
		return vm.addThread(dst, thread{state: st.Next, captures: caps}, input, pos)

	case compiler.StateAnchor:
		if anchorSatisfied(vm.prog, st.Anchor, input, pos) {
			return vm.addThread(dst, thread{state: st.Next, captures: t.captures}, input, pos)
		}
		return dst

	case compiler.StateBackref:
		// Unreachable: Program.HasBackref routes these patterns to
		// Backtracker instead.
		return dst
	}
	return dst
}

func (vm *PikeVM) step(t thread, r rune, input []rune, nextPos int) {
	st := &vm.prog.States[t.state]
	if st.Kind != compiler.StateConsume || !vm.prog.Matches(st, r) {
		return
	}
	vm.nextQueue = vm.addThread(vm.nextQueue, thread{state: st.Next, captures: t.captures}, input, nextPos)
}

func buildMatch(numCaptures int, caps []int, start, end int) *Match {
	m := &Match{FullMatch: Span{start, end}, Groups: make([]Span, numCaptures+1)}
	m.Groups[0] = m.FullMatch
	for i := 1; i <= numCaptures; i++ {
		lo, hi := i*2, i*2+1
		if caps == nil || hi >= len(caps) || caps[lo] < 0 || caps[hi] < 0 {
			m.Groups[i] = unsetSpan
			continue
		}
		m.Groups[i] = Span{caps[lo], caps[hi]}
	}
	return m
}

// isWordRune reports whether r is a \w constituent, for \b/\B boundary
// checks — kept consistent with syntax.Word's ASCII-only definition.
func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

func anchorSatisfied(prog *compiler.Program, anchor compiler.AnchorKind, input []rune, pos int) bool {
	switch anchor {
	case compiler.AnchorStart:
		if pos == 0 {
			return true
		}
		return prog.Options.Multiline && input[pos-1] == '\n'
	case compiler.AnchorEnd:
		if pos == len(input) {
			return true
		}
		return prog.Options.Multiline && input[pos] == '\n'
	case compiler.AnchorWordBoundary, compiler.AnchorNonWordBoundary:
		before := pos > 0 && isWordRune(input[pos-1])
		after := pos < len(input) && isWordRune(input[pos])
		boundary := before != after
		if anchor == compiler.AnchorNonWordBoundary {
			return !boundary
		}
		return boundary
	}
	return false
}
