// Package relite implements a regular expression engine: a scanner and
// recursive-descent parser produce an AST, a compiler lowers the AST
// into a state graph, and one of two matchers executes that graph
// against an input string.
//
// Basic usage:
//
//	re, err := relite.Compile(`(\d{3})-(\d{4})`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if re.IsMatch("call 555-1234 now") {
//	    fmt.Println(re.Matches("call 555-1234 now"))
//	}
package relite

import (
	"sync"
	"unicode/utf8"

	"github.com/gorelite/relite/compiler"
	"github.com/gorelite/relite/literal"
	"github.com/gorelite/relite/matcher"
	"github.com/gorelite/relite/syntax"
)

// Match is one match of a pattern against a string.
type Match = matcher.Match

// Span is a half-open [Start, End) scalar (rune) offset range; Unset
// groups report (-1, -1).
type Span = matcher.Span

// Option configures optional match behaviors at Compile time.
type Option func(*compiler.Options)

// CaseInsensitive makes literal and class matching case-fold aware.
func CaseInsensitive() Option {
	return func(o *compiler.Options) { o.CaseInsensitive = true }
}

// Multiline makes ^ and $ also match immediately after/before any '\n',
// not only at the very start/end of the input.
func Multiline() Option {
	return func(o *compiler.Options) { o.Multiline = true }
}

// DotMatchesLineSeparators makes '.' match '\n' and '\r' as well as
// every other scalar.
func DotMatchesLineSeparators() Option {
	return func(o *compiler.Options) { o.DotMatchesLineSeparators = true }
}

// searchEngine is implemented by both *matcher.PikeVM and
// *matcher.Backtracker so Regex can pool whichever one its program
// selected without knowing which at the call site.
type searchEngine interface {
	FindAt(input []rune, start int) *matcher.Match
	FindFrom(input []rune, from int) *matcher.Match
	FindAll(input []rune) []matcher.Match
}

// Regex is a compiled pattern. A *Regex is safe for concurrent use: all
// per-search scratch state is pooled per goroutine rather than stored on
// Regex itself.
type Regex struct {
	pattern string
	prog    *compiler.Program

	engines sync.Pool // searchEngine

	prefix *literal.PrefixScanner     // nil if prog has no fixed literal prefix
	altPF  *literal.AlternationPrefilter // nil unless the whole pattern is a literal alternation
}

// Compile parses and compiles pattern, applying opts.
func Compile(pattern string, opts ...Option) (*Regex, error) {
	re, err := syntax.ParseRegexp(pattern)
	if err != nil {
		return nil, err
	}

	var options compiler.Options
	for _, opt := range opts {
		opt(&options)
	}

	prog, err := compiler.Compile(re, options)
	if err != nil {
		return nil, err
	}

	r := &Regex{pattern: pattern, prog: prog}
	r.engines.New = func() any { return newEngine(prog) }

	if ps, ok := literal.NewPrefixScanner(prog); ok {
		r.prefix = ps
	}
	if !options.CaseInsensitive {
		if pf, ok := literal.NewAlternationPrefilter(prog); ok {
			r.altPF = pf
		}
	}
	return r, nil
}

// MustCompile is like Compile but panics if pattern is invalid.
func MustCompile(pattern string, opts ...Option) *Regex {
	re, err := Compile(pattern, opts...)
	if err != nil {
		panic("relite: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

func newEngine(prog *compiler.Program) searchEngine {
	if prog.HasBackref {
		return matcher.NewBacktracker(prog)
	}
	return matcher.NewPikeVM(prog)
}

// String returns the source pattern re was compiled from.
func (r *Regex) String() string { return r.pattern }

// NumberOfCaptureGroups returns the number of capturing groups in the
// pattern, excluding the implicit group 0 (the whole match).
func (r *Regex) NumberOfCaptureGroups() int { return r.prog.NumCaptures }

// IsMatch reports whether the pattern matches anywhere in s.
func (r *Regex) IsMatch(s string) bool {
	if r.altPF != nil {
		return r.altPF.IsMatch([]byte(s))
	}

	input := []rune(s)
	if r.prefix == nil {
		eng := r.engines.Get().(searchEngine)
		defer r.engines.Put(eng)
		return eng.FindFrom(input, 0) != nil
	}

	eng := r.engines.Get().(searchEngine)
	defer r.engines.Put(eng)
	for pos := 0; ; {
		start, ok := r.prefix.Next(input, pos)
		if !ok {
			return false
		}
		if eng.FindAt(input, start) != nil {
			return true
		}
		pos = start + 1
	}
}

// Matches returns every non-overlapping match of the pattern in s, left
// to right.
func (r *Regex) Matches(s string) []Match {
	if r.altPF != nil {
		return r.matchesViaAlternation(s)
	}
	input := []rune(s)
	eng := r.engines.Get().(searchEngine)
	defer r.engines.Put(eng)
	return eng.FindAll(input)
}

// matchesViaAlternation enumerates hits directly from the Aho-Corasick
// automaton: since r.altPF only exists when the whole pattern is a
// literal alternation, every automaton hit is already a full, final
// match with no capture groups beyond group 0. The automaton reports
// byte offsets into the UTF-8 encoding of s; these are converted to
// scalar (rune) offsets so results are indexed the same way as every
// other Regex method's results.
func (r *Regex) matchesViaAlternation(s string) []Match {
	haystack := []byte(s)
	var out []Match
	pos := 0
	for pos <= len(haystack) {
		start, end, ok := r.altPF.Find(haystack, pos)
		if !ok {
			break
		}
		span := Span{Start: utf8.RuneCount(haystack[:start]), End: utf8.RuneCount(haystack[:end])}
		out = append(out, Match{FullMatch: span, Groups: []Span{span}})
		if end > pos {
			pos = end
		} else {
			pos++
		}
	}
	return out
}
