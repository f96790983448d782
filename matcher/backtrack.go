package matcher

import "github.com/gorelite/relite/compiler"

// Backtracker is a recursive backtracking matcher for programs compiled
// from a pattern containing a backreference. A Thompson/Pike-style
// thread simulation cannot execute a StateBackref transition at all — it
// would need to compare a run of input against a capture whose own
// value is still being decided by other threads — so compiler.Program
// routes HasBackref patterns here instead of to PikeVM.
//
// Recursion is memoized on (state, position), per the bit-vector
// technique in the teacher's BoundedBacktracker: without it, patterns
// like (a*)*  can revisit the same (state, position) exponentially
// often. Memoization bounds each start position to O(states×input)
// attempts, but each attempt through a StateBackref can itself cost
// O(len(group)) to compare text, so the bound is polynomial rather than
// the per-start linear bound PikeVM gives backreference-free programs.
type Backtracker struct {
	prog    *compiler.Program
	visited []uint64
	input   []rune
	caps    []int
}

// NewBacktracker returns a Backtracker for prog.
func NewBacktracker(prog *compiler.Program) *Backtracker {
	return &Backtracker{prog: prog, caps: make([]int, (prog.NumCaptures+1)*2)}
}

// FindFrom returns the leftmost match at or after from.
func (bt *Backtracker) FindFrom(input []rune, from int) *Match {
	bt.input = input
	bt.reset(len(input))
	for start := from; start <= len(input); start++ {
		for i := range bt.caps {
			bt.caps[i] = -1
		}
		bt.clearVisited()
		if end, ok := bt.search(start, bt.prog.Start); ok {
			return buildMatch(bt.prog.NumCaptures, bt.caps, start, end)
		}
	}
	return nil
}

// FindAt runs a single anchored attempt at exactly start, or nil if the
// program does not match there.
func (bt *Backtracker) FindAt(input []rune, start int) *Match {
	bt.input = input
	bt.reset(len(input))
	for i := range bt.caps {
		bt.caps[i] = -1
	}
	bt.clearVisited()
	if end, ok := bt.search(start, bt.prog.Start); ok {
		return buildMatch(bt.prog.NumCaptures, bt.caps, start, end)
	}
	return nil
}

// FindAll returns every non-overlapping match in input, left to right.
func (bt *Backtracker) FindAll(input []rune) []Match {
	var out []Match
	pos := 0
	for pos <= len(input) {
		m := bt.FindFrom(input, pos)
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

func (bt *Backtracker) reset(inputLen int) {
	bits := len(bt.prog.States) * (inputLen + 1)
	words := (bits + 63) / 64
	if cap(bt.visited) >= words {
		bt.visited = bt.visited[:words]
	} else {
		bt.visited = make([]uint64, words)
	}
}

func (bt *Backtracker) clearVisited() {
	for i := range bt.visited {
		bt.visited[i] = 0
	}
}

// shouldVisit reports whether (state, pos) is new, marking it visited
// either way.
func (bt *Backtracker) shouldVisit(state compiler.StateID, pos int) bool {
	idx := int(state)*(len(bt.input)+1) + pos
	word, bit := idx/64, uint64(1)<<(uint(idx)%64)
	if bt.visited[word]&bit != 0 {
		return false
	}
	bt.visited[word] |= bit
	return true
}

// search attempts to match starting at (pos, state), returning the
// match's end position on success. Captures are mutated in place and
// restored on a failed branch, the standard backtracking capture
// discipline.
func (bt *Backtracker) search(pos int, state compiler.StateID) (int, bool) {
	if !bt.shouldVisit(state, pos) {
		return -1, false
	}

	st := &bt.prog.States[state]
	switch st.Kind {
	case compiler.StateMatch:
		return pos, true

	case compiler.StateConsume:
		if pos >= len(bt.input) || !bt.prog.Matches(st, bt.input[pos]) {
			return -1, false
		}
		return bt.search(pos+1, st.Next)

	case compiler.StateEpsilon:
		return bt.search(pos, st.Next)

	case compiler.StateSplit:
		if end, ok := bt.search(pos, st.First); ok {
			return end, true
		}
		return bt.search(pos, st.Second)

	case compiler.StateCaptureStart:
		return bt.withCapture(int(st.GroupIndex)*2, pos, st.Next)

	case compiler.StateCaptureEnd:
		return bt.withCapture(int(st.GroupIndex)*2+1, pos, st.Next)

	case compiler.StateAnchor:
		if !anchorSatisfied(bt.prog, st.Anchor, bt.input, pos) {
			return -1, false
		}
		return bt.search(pos, st.Next)

	case compiler.StateBackref:
		return bt.matchBackref(st, pos)
	}
	return -1, false
}

func (bt *Backtracker) withCapture(slot, pos int, next compiler.StateID) (int, bool) {
	prev := bt.caps[slot]
	bt.caps[slot] = pos
	if end, ok := bt.search(pos, next); ok {
		return end, true
	}
	bt.caps[slot] = prev
	return -1, false
}

// matchBackref consumes input matching the text previously captured by
// group st.GroupIndex. An unset (unmatched) group never matches,
// following the common backreference convention.
func (bt *Backtracker) matchBackref(st *compiler.State, pos int) (int, bool) {
	lo, hi := int(st.GroupIndex)*2, int(st.GroupIndex)*2+1
	start, end := bt.caps[lo], bt.caps[hi]
	if start < 0 || end < 0 {
		return -1, false
	}

	want := bt.input[start:end]
	if pos+len(want) > len(bt.input) {
		return -1, false
	}
	for i, r := range want {
		if !bt.prog.CaseFold(r, bt.input[pos+i]) {
			return -1, false
		}
	}
	return bt.search(pos+len(want), st.Next)
}
