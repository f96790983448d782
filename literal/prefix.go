package literal

import "github.com/gorelite/relite/compiler"

// PrefixScanner finds candidate start positions for a Program with a
// fixed LiteralPrefix, letting a search skip straight to the next
// occurrence of that prefix instead of invoking the matcher at every
// input position — the same role the teacher's literal.Seq prefix plays
// ahead of its DFA/NFA engines, trimmed here to the single-fixed-prefix
// case (no suffix/inner literals, no cross-product expansion across
// character classes: Program only ever exposes one candidate prefix).
type PrefixScanner struct {
	prefix []rune
}

// NewPrefixScanner returns a scanner for prog's LiteralPrefix, or
// ok=false if prog has none.
func NewPrefixScanner(prog *compiler.Program) (*PrefixScanner, bool) {
	if len(prog.LiteralPrefix) == 0 {
		return nil, false
	}
	return &PrefixScanner{prefix: prog.LiteralPrefix}, true
}

// Next returns the offset of the first occurrence of the prefix at or
// after from, or ok=false if it doesn't occur again.
func (s *PrefixScanner) Next(input []rune, from int) (int, bool) {
	n := len(s.prefix)
	for i := from; i+n <= len(input); i++ {
		if runesEqual(input[i:i+n], s.prefix) {
			return i, true
		}
	}
	return 0, false
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
