package compiler

import "unicode"

// foldEqual reports whether r1 and r2 are the same scalar under Unicode
// simple case folding. ASCII letters are checked directly (cheap, and
// correct for the common case); everything else walks unicode.SimpleFold's
// orbit, matching the "Unicode case-fold optional" allowance in spec §4.4.
func foldEqual(r1, r2 rune) bool {
	if isASCIIUpper(r1) {
		r1 += 'a' - 'A'
	}
	if isASCIIUpper(r2) {
		r2 += 'a' - 'A'
	}
	if r1 == r2 {
		return true
	}
	for f := unicode.SimpleFold(r1); f != r1; f = unicode.SimpleFold(f) {
		if f == r2 {
			return true
		}
	}
	return false
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

// foldEqualASCII is foldEqual restricted to two scalars already known to
// be ASCII (see Program.PatternASCII): it skips unicode.SimpleFold's orbit
// walk entirely, since no codepoint outside a letter's own case pair ever
// folds to an ASCII scalar.
func foldEqualASCII(r1, r2 rune) bool {
	if isASCIIUpper(r1) {
		r1 += 'a' - 'A'
	}
	if isASCIIUpper(r2) {
		r2 += 'a' - 'A'
	}
	return r1 == r2
}

// classContainsFolded reports whether any case-fold equivalent of r is a
// member of cs, used when matching a character class under
// CaseInsensitive.
func classContainsFolded(cs interface{ Contains(rune) bool }, r rune) bool {
	if lower := foldToLower(r); lower != r && cs.Contains(lower) {
		return true
	}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if cs.Contains(f) {
			return true
		}
	}
	return false
}

func foldToLower(r rune) rune {
	if isASCIIUpper(r) {
		return r + ('a' - 'A')
	}
	return unicode.ToLower(r)
}
