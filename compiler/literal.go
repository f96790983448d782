package compiler

import "github.com/gorelite/relite/syntax"

// extractLiteralPrefix walks the compiled Program from its Start state,
// following StateConsume(ConsumeLiteral) states as long as each has
// exactly one successor and no competing Split, collecting the run of
// literal scalars every match must begin with. Capture start/end states
// consume nothing and are passed through. It stops at the first branch
// point, class/any consume, anchor, or backref — any of those mean the
// prefix is no longer unconditionally fixed.
//
// Case-insensitive programs skip this optimization: a literal prefix
// scan would need to fold every comparison anyway, at which point it
// buys nothing over just running the matcher.
func extractLiteralPrefix(p *Program) []rune {
	if p.Options.CaseInsensitive {
		return nil
	}
	var prefix []rune
	id := p.Start
	seen := make(map[StateID]bool)
	for {
		if seen[id] {
			break // defensive: a cycle here would mean a zero-width loop, not a real prefix
		}
		seen[id] = true
		st := &p.States[id]
		switch st.Kind {
		case StateCaptureStart, StateCaptureEnd:
			id = st.Next
			continue
		case StateConsume:
			if st.ConsumeKind != ConsumeLiteral {
				return prefix
			}
			prefix = append(prefix, st.Literal)
			id = st.Next
			continue
		}
		return prefix
	}
	return prefix
}

// extractAlternationLiterals reports the branch literals when root is a
// top-level OpAlternation (optionally wrapped in an OpConcat of just
// itself, or non-capturing groups) whose every branch is a plain run of
// literal scalars with no quantifiers, classes, or anchors. This is the
// shape package literal's ahocorasick prefilter exploits; any branch
// that isn't a pure literal run disqualifies the whole pattern, since
// the prefilter must never reject a position that the real matcher
// would accept.
func extractAlternationLiterals(root *syntax.Node) [][]rune {
	alt := unwrapToAlternation(root)
	if alt == nil {
		return nil
	}
	lits := make([][]rune, 0, len(alt.Branches))
	for _, branch := range alt.Branches {
		lit, ok := literalRun(branch)
		if !ok {
			return nil
		}
		lits = append(lits, lit)
	}
	return lits
}

// unwrapToAlternation looks through a concatenation of exactly one item
// and a non-capturing group to find a top-level alternation. A capturing
// group is never unwrapped: the alternation prefilter in package literal
// reports only a full-match span with no per-group captures, so treating
// `(cat|dog)` the same as `cat|dog` would silently drop group 1's span.
func unwrapToAlternation(n *syntax.Node) *syntax.Node {
	for {
		switch n.Op {
		case syntax.OpAlternation:
			return n
		case syntax.OpConcat:
			if len(n.Items) != 1 {
				return nil
			}
			n = n.Items[0]
		case syntax.OpGroup:
			if n.Capturing {
				return nil
			}
			n = n.GroupChild
		default:
			return nil
		}
	}
}

func literalRun(n *syntax.Node) ([]rune, bool) {
	switch n.Op {
	case syntax.OpLiteral:
		return []rune{n.Literal}, true
	case syntax.OpConcat:
		run := make([]rune, 0, len(n.Items))
		for _, item := range n.Items {
			if item.Op != syntax.OpLiteral {
				return nil, false
			}
			run = append(run, item.Literal)
		}
		return run, true
	}
	return nil, false
}
