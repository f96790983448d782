package compiler

import (
	"fmt"

	"github.com/gorelite/relite/internal/ascii"
	"github.com/gorelite/relite/internal/conv"
	"github.com/gorelite/relite/syntax"
)

// Compile lowers re's AST into a Program under opts, per the mapping
// rules in spec §4.3. It performs the semantic checks the parser
// deliberately leaves undone (quantifier bound ordering, zero
// single-bound, backreference validity) and returns a *syntax.Error for
// any violation, preserving the parser/syntax vs. compiler/semantic split
// the spec's Design Notes call out.
func Compile(re *syntax.Regexp, opts Options) (*Program, error) {
	c := &compileCtx{re: re, b: newBuilder()}

	accept := c.b.add(State{Kind: StateMatch})
	entry, err := c.compileNode(re.Root, accept)
	if err != nil {
		return nil, err
	}

	if err := c.checkBackrefs(re.Root, 0); err != nil {
		return nil, err
	}

	prog := &Program{
		States:       c.b.states,
		Start:        entry,
		Accept:       accept,
		NumCaptures:  re.NumGroups,
		HasBackref:   c.hasBackref,
		Options:      opts,
		PatternASCII: ascii.IsASCII([]byte(re.Source)),
	}
	prog.LiteralPrefix = extractLiteralPrefix(prog)
	prog.AlternationLiterals = extractAlternationLiterals(re.Root)
	return prog, nil
}

type compileCtx struct {
	re         *syntax.Regexp
	b          *builder
	hasBackref bool
}

func (c *compileCtx) errf(n *syntax.Node, sentinel error, format string, args ...any) error {
	return syntax.NewError(sentinel, c.re.Source, n.Pos.Start, fmt.Sprintf(format, args...))
}

// compileNode compiles n so that, on success, control continues at next.
// It returns the entry StateID of the compiled fragment.
func (c *compileCtx) compileNode(n *syntax.Node, next StateID) (StateID, error) {
	switch n.Op {
	case syntax.OpLiteral:
		return c.b.add(State{Kind: StateConsume, ConsumeKind: ConsumeLiteral, Literal: n.Literal, Next: next}), nil

	case syntax.OpAny:
		return c.b.add(State{Kind: StateConsume, ConsumeKind: ConsumeAny, Next: next}), nil

	case syntax.OpCharClass:
		return c.b.add(State{Kind: StateConsume, ConsumeKind: ConsumeClass, Class: n.Class, Next: next}), nil

	case syntax.OpAnchorStart:
		return c.b.add(State{Kind: StateAnchor, Anchor: AnchorStart, Next: next}), nil
	case syntax.OpAnchorEnd:
		return c.b.add(State{Kind: StateAnchor, Anchor: AnchorEnd, Next: next}), nil
	case syntax.OpWordBoundary:
		return c.b.add(State{Kind: StateAnchor, Anchor: AnchorWordBoundary, Next: next}), nil
	case syntax.OpNonWordBoundary:
		return c.b.add(State{Kind: StateAnchor, Anchor: AnchorNonWordBoundary, Next: next}), nil

	case syntax.OpBackref:
		c.hasBackref = true
		return c.b.add(State{Kind: StateBackref, GroupIndex: conv.IntToUint32(n.BackrefIndex), Next: next}), nil

	case syntax.OpGroup:
		return c.compileGroup(n, next)

	case syntax.OpAlternation:
		return c.compileAlternation(n, next)

	case syntax.OpQuantified:
		return c.compileQuantified(n, next)

	case syntax.OpConcat:
		return c.compileConcat(n, next)
	}
	return InvalidState, c.errf(n, syntax.ErrUnsupportedConstruct, "unrecognized AST node")
}

// compileConcat chains items end to end: the entry of each item is the
// exit (continuation) of the one before it, built right-to-left so every
// continuation is already known (spec §4.3: "Concatenation: chain entries
// end-to-end").
func (c *compileCtx) compileConcat(n *syntax.Node, next StateID) (StateID, error) {
	if len(n.Items) == 0 {
		return next, nil
	}
	cont := next
	for i := len(n.Items) - 1; i >= 0; i-- {
		entry, err := c.compileNode(n.Items[i], cont)
		if err != nil {
			return InvalidState, err
		}
		cont = entry
	}
	return cont, nil
}

// compileGroup wraps the child's entry with CaptureStart(k) and its exit
// with CaptureEnd(k) for a capturing group, or passes through unchanged
// for a non-capturing one (spec §4.3).
func (c *compileCtx) compileGroup(n *syntax.Node, next StateID) (StateID, error) {
	if !n.Capturing {
		return c.compileNode(n.GroupChild, next)
	}
	groupIndex := conv.IntToUint32(n.GroupIndex)
	captureEnd := c.b.add(State{Kind: StateCaptureEnd, GroupIndex: groupIndex, Next: next})
	childEntry, err := c.compileNode(n.GroupChild, captureEnd)
	if err != nil {
		return InvalidState, err
	}
	return c.b.add(State{Kind: StateCaptureStart, GroupIndex: groupIndex, Next: childEntry}), nil
}

// compileAlternation builds a right-folded chain of Splits over the
// branches, each compiled with the shared continuation next, so that
// earlier branches are tried first (spec §4.3: "new entry state with two
// Epsilon transitions to A.entry and B.entry").
func (c *compileCtx) compileAlternation(n *syntax.Node, next StateID) (StateID, error) {
	entries := make([]StateID, len(n.Branches))
	for i, branch := range n.Branches {
		entry, err := c.compileNode(branch, next)
		if err != nil {
			return InvalidState, err
		}
		entries[i] = entry
	}

	cont := entries[len(entries)-1]
	for i := len(entries) - 2; i >= 0; i-- {
		cont = c.b.add(State{Kind: StateSplit, First: entries[i], Second: cont})
	}
	return cont, nil
}

// compileQuantified implements the six quantifier lowering rules of
// spec §4.3.
func (c *compileCtx) compileQuantified(n *syntax.Node, next StateID) (StateID, error) {
	q := n.Quantifier

	switch q.Kind {
	case syntax.QuantZeroOrMore:
		return c.compileStar(n.Child, next, q.Lazy)
	case syntax.QuantOneOrMore:
		return c.compilePlus(n.Child, next, q.Lazy)
	case syntax.QuantZeroOrOne:
		return c.compileOptional(n.Child, next, q.Lazy)
	case syntax.QuantRange:
		return c.compileRange(n, next)
	}
	return InvalidState, c.errf(n, syntax.ErrMalformedQuantifier, "unknown quantifier kind")
}

// compileStar implements X* : a split whose two ε-edges (in priority
// order) are "enter X, loop back to the split" and "skip". Swapping edge
// order is how greedy vs. lazy is encoded (spec §4.3/§4.4).
func (c *compileCtx) compileStar(child *syntax.Node, next StateID, lazy bool) (StateID, error) {
	split := c.b.alloc()
	childEntry, err := c.compileNode(child, split)
	if err != nil {
		return InvalidState, err
	}
	if lazy {
		c.b.fill(split, State{Kind: StateSplit, First: next, Second: childEntry})
	} else {
		c.b.fill(split, State{Kind: StateSplit, First: childEntry, Second: next})
	}
	return split, nil
}

// compilePlus implements X+: one mandatory pass through X, then the same
// loop-or-exit split as X* (spec: "copy of X followed by split with loop
// and exit" — continuation-passing lets us share the single compiled X
// between the mandatory entry and the loop-back target).
func (c *compileCtx) compilePlus(child *syntax.Node, next StateID, lazy bool) (StateID, error) {
	split := c.b.alloc()
	childEntry, err := c.compileNode(child, split)
	if err != nil {
		return InvalidState, err
	}
	if lazy {
		c.b.fill(split, State{Kind: StateSplit, First: next, Second: childEntry})
	} else {
		c.b.fill(split, State{Kind: StateSplit, First: childEntry, Second: next})
	}
	return childEntry, nil
}

// compileOptional implements X?: a split with "take X" / "skip" edges.
func (c *compileCtx) compileOptional(child *syntax.Node, next StateID, lazy bool) (StateID, error) {
	childEntry, err := c.compileNode(child, next)
	if err != nil {
		return InvalidState, err
	}
	if lazy {
		return c.b.add(State{Kind: StateSplit, First: next, Second: childEntry}), nil
	}
	return c.b.add(State{Kind: StateSplit, First: childEntry, Second: next}), nil
}

// compileRange implements X{n}, X{n,}, and X{n,m} after validating the
// semantic bound rules the parser deliberately left unchecked.
func (c *compileCtx) compileRange(n *syntax.Node, next StateID) (StateID, error) {
	q := n.Quantifier
	if q.Lower < 0 {
		return InvalidState, c.errf(n, syntax.ErrMalformedQuantifier, "quantifier lower bound must be >= 0")
	}
	if q.SingleBound {
		if q.Lower <= 0 {
			return InvalidState, c.errf(n, syntax.ErrMalformedQuantifier, "single-bound quantifier {%d} must be > 0", q.Lower)
		}
	} else if q.Upper != syntax.NoUpper && q.Upper < q.Lower {
		return InvalidState, c.errf(n, syntax.ErrMalformedQuantifier, "quantifier upper bound %d is less than lower bound %d", q.Upper, q.Lower)
	}

	// X{n,}: n mandatory copies followed by X*.
	if !q.SingleBound && q.Upper == syntax.NoUpper {
		cont, err := c.compileStar(n.Child, next, q.Lazy)
		if err != nil {
			return InvalidState, err
		}
		for i := 0; i < q.Lower; i++ {
			entry, err := c.compileNode(n.Child, cont)
			if err != nil {
				return InvalidState, err
			}
			cont = entry
		}
		return cont, nil
	}

	// X{n}: n copies in sequence.
	if q.SingleBound || q.Upper == q.Lower {
		cont := next
		for i := 0; i < q.Lower; i++ {
			entry, err := c.compileNode(n.Child, cont)
			if err != nil {
				return InvalidState, err
			}
			cont = entry
		}
		return cont, nil
	}

	// X{n,m}: n mandatory copies followed by (m-n) optional copies.
	cont := next
	for i := 0; i < q.Upper-q.Lower; i++ {
		entry, err := c.compileOptional(n.Child, cont, q.Lazy)
		if err != nil {
			return InvalidState, err
		}
		cont = entry
	}
	for i := 0; i < q.Lower; i++ {
		entry, err := c.compileNode(n.Child, cont)
		if err != nil {
			return InvalidState, err
		}
		cont = entry
	}
	return cont, nil
}

// checkBackrefs walks the AST verifying every backreference refers to a
// capturing group whose opening parenthesis appears earlier in the
// pattern, per the forward-reference invariant in spec §3. maxGroupSoFar
// tracks the highest capturing-group index opened before the current
// position in a left-to-right walk.
func (c *compileCtx) checkBackrefs(n *syntax.Node, maxGroupSoFar int) error {
	_, err := c.walkBackrefs(n, maxGroupSoFar)
	return err
}

func (c *compileCtx) walkBackrefs(n *syntax.Node, maxGroupSoFar int) (int, error) {
	switch n.Op {
	case syntax.OpBackref:
		if n.BackrefIndex <= 0 || n.BackrefIndex > maxGroupSoFar {
			return maxGroupSoFar, c.errf(n, syntax.ErrInvalidBackref,
				"backreference \\%d refers to a non-existent or invalid subpattern", n.BackrefIndex)
		}
		return maxGroupSoFar, nil

	case syntax.OpGroup:
		if n.Capturing {
			// The group's own index becomes visible to backreferences
			// inside its own body and everything after it, but not to
			// anything preceding it (left-to-right opening-paren order).
			maxGroupSoFar = n.GroupIndex
		}
		return c.walkBackrefs(n.GroupChild, maxGroupSoFar)

	case syntax.OpAlternation:
		best := maxGroupSoFar
		for _, br := range n.Branches {
			m, err := c.walkBackrefs(br, maxGroupSoFar)
			if err != nil {
				return maxGroupSoFar, err
			}
			if m > best {
				best = m
			}
		}
		return best, nil

	case syntax.OpQuantified:
		return c.walkBackrefs(n.Child, maxGroupSoFar)

	case syntax.OpConcat:
		cur := maxGroupSoFar
		for _, item := range n.Items {
			m, err := c.walkBackrefs(item, cur)
			if err != nil {
				return cur, err
			}
			cur = m
		}
		return cur, nil
	}
	return maxGroupSoFar, nil
}
