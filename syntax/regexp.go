package syntax

// Regexp wraps a parsed pattern's AST together with its source text, the
// way the isgasho-regex-1 reference wraps Expr in a Regexp{Source, Expr}:
// Source lets nodes recover their matched substring for debug output and
// error messages without each Node owning a copy of the text.
type Regexp struct {
	Source    string
	Root      *Node
	NumGroups int // number of capturing groups (group 0, the whole match, is implicit)
}

// ParseRegexp parses pattern and returns its Regexp, or a *Error.
func ParseRegexp(pattern string) (*Regexp, error) {
	root, numGroups, err := Parse(pattern)
	if err != nil {
		return nil, err
	}
	return &Regexp{Source: pattern, Root: root, NumGroups: numGroups}, nil
}

// ExprString returns the substring of the source pattern spanned by n.
func (re *Regexp) ExprString(n *Node) string {
	r := []rune(re.Source)
	start, end := n.Pos.Start, n.Pos.End
	if start < 0 {
		start = 0
	}
	if end > len(r) {
		end = len(r)
	}
	if start >= end {
		return ""
	}
	return string(r[start:end])
}
