package relite

import (
	"errors"
	"testing"
	"time"

	"github.com/gorelite/relite/syntax"
)

func spans(matches []Match) []Span {
	out := make([]Span, len(matches))
	for i, m := range matches {
		out[i] = m.FullMatch
	}
	return out
}

func strs(s string, matches []Match) []string {
	r := []rune(s)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = string(r[m.FullMatch.Start:m.FullMatch.End])
	}
	return out
}

func TestCompileRejectsInvalidPattern(t *testing.T) {
	_, err := Compile("(a")
	if err == nil {
		t.Fatal("Compile(\"(a\") error = nil, want a *syntax.Error")
	}
	var serr *syntax.Error
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want *syntax.Error", err)
	}
}

func TestMustCompilePanicsOnInvalidPattern(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustCompile did not panic on an invalid pattern")
		}
	}()
	MustCompile("a{2,1}")
}

func TestRegexString(t *testing.T) {
	re := MustCompile(`a+b`)
	if re.String() != "a+b" {
		t.Fatalf("String() = %q, want %q", re.String(), "a+b")
	}
}

func TestNumberOfCaptureGroups(t *testing.T) {
	re := MustCompile(`(a)(b(c))`)
	if n := re.NumberOfCaptureGroups(); n != 3 {
		t.Fatalf("NumberOfCaptureGroups() = %d, want 3", n)
	}
}

func TestCaseInsensitiveOption(t *testing.T) {
	re := MustCompile(`hello`, CaseInsensitive())
	if !re.IsMatch("HELLO") {
		t.Error("IsMatch(\"HELLO\") = false under CaseInsensitive")
	}
}

func TestMultilineOption(t *testing.T) {
	re := MustCompile(`^b`, Multiline())
	if !re.IsMatch("a\nb") {
		t.Error("IsMatch failed with Multiline ^ after a newline")
	}
}

func TestDotMatchesLineSeparatorsOption(t *testing.T) {
	re := MustCompile(`a.b`, DotMatchesLineSeparators())
	if !re.IsMatch("a\nb") {
		t.Error("IsMatch failed with DotMatchesLineSeparators")
	}
}

// TestIsMatchAgreesWithMatches checks the spec's core invariant:
// isMatch(P, S) is true iff matches(P, S) is non-empty.
func TestIsMatchAgreesWithMatches(t *testing.T) {
	patterns := []string{`a|b`, `^(ab)*$`, `a*`, `a*?`, `a{1,3}`, `(a)\1`, `(a*)*c`,
		`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`, `cat|dog|bird`, `foo\d+`}
	inputs := []string{"ab", "", "abab", "aaaa", "aa ab ba", "aaaaaaaaaaaaab",
		"#1f1f1F", "#afaf", "I have a dog", "foo123"}

	for _, p := range patterns {
		re := MustCompile(p)
		for _, in := range inputs {
			isMatch := re.IsMatch(in)
			hasMatches := len(re.Matches(in)) > 0
			if isMatch != hasMatches {
				t.Errorf("pattern %q input %q: IsMatch=%v, len(Matches)>0=%v", p, in, isMatch, hasMatches)
			}
		}
	}
}

func TestScenario1Alternation(t *testing.T) {
	re := MustCompile(`a|b`)
	got := strs("ab", re.Matches("ab"))
	want := []string{"a", "b"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Matches(\"ab\") = %v, want %v", got, want)
	}
	if re.IsMatch("") {
		t.Error("IsMatch(\"\") = true, want false")
	}
}

func TestScenario2AnchoredStarCapturesLastIteration(t *testing.T) {
	re := MustCompile(`^(ab)*$`)
	matches := re.Matches("abab")
	if len(matches) != 1 {
		t.Fatalf("Matches(\"abab\") = %v, want a single match", matches)
	}
	m := matches[0]
	if m.FullMatch != (Span{0, 4}) {
		t.Fatalf("FullMatch = %+v, want {0,4}", m.FullMatch)
	}
	if m.Groups[1] != (Span{2, 4}) {
		t.Fatalf("Groups[1] = %+v, want {2,4} (the last \"ab\" iteration)", m.Groups[1])
	}
}

func TestScenario3GreedyStarTrailingEmptyMatch(t *testing.T) {
	re := MustCompile(`a*`)
	got := spans(re.Matches("aaaa"))
	want := []Span{{0, 4}, {4, 4}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Matches(\"aaaa\") spans = %v, want %v", got, want)
	}
}

func TestScenario4LazyStarFiveEmptyMatches(t *testing.T) {
	re := MustCompile(`a*?`)
	got := spans(re.Matches("aaaa"))
	want := []Span{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}}
	if len(got) != len(want) {
		t.Fatalf("Matches(\"aaaa\") = %v, want %d empty matches", got, len(want))
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("span[%d] = %+v, want %+v", i, got[i], w)
		}
	}
}

func TestScenario5RangeQuantifierGreedy(t *testing.T) {
	re := MustCompile(`a{1,3}`)
	got := strs("aaaa", re.Matches("aaaa"))
	want := []string{"aaa", "a"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Matches(\"aaaa\") = %v, want %v", got, want)
	}
}

func TestScenario6Backreference(t *testing.T) {
	re := MustCompile(`(a)\1`)
	got := strs("aa ab ba", re.Matches("aa ab ba"))
	if len(got) != 1 || got[0] != "aa" {
		t.Fatalf("Matches = %v, want exactly [\"aa\"]", got)
	}
}

func TestScenario7NestedStarLinearTime(t *testing.T) {
	re := MustCompile(`(a*)*c`)
	input := ""
	for i := 0; i < 35; i++ {
		input += "a"
	}
	input += "b" // no trailing 'c'

	done := make(chan bool, 1)
	go func() { done <- re.IsMatch(input) }()
	select {
	case matched := <-done:
		if matched {
			t.Fatal("IsMatch = true, want false")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("IsMatch did not return within 2s, want linear-time completion")
	}
}

func TestScenario8AnchoredHexColor(t *testing.T) {
	re := MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
	if !re.IsMatch("#1f1f1F") {
		t.Error("IsMatch(\"#1f1f1F\") = false, want true")
	}
	if re.IsMatch("#afaf") {
		t.Error("IsMatch(\"#afaf\") = true, want false")
	}
}

func TestEmptyPatternCompileFails(t *testing.T) {
	_, err := Compile("")
	if !errors.Is(err, syntax.ErrEmptyPattern) {
		t.Fatalf("Compile(\"\") error = %v, want ErrEmptyPattern", err)
	}
}

func TestEmptyStringInputWithStarYieldsOneEmptyMatch(t *testing.T) {
	re := MustCompile(`a*`)
	matches := re.Matches("")
	if len(matches) != 1 || matches[0].FullMatch != (Span{0, 0}) {
		t.Fatalf("Matches(\"\") = %v, want a single empty match at 0", matches)
	}
}

func TestDoubleStarCompilesAsStar(t *testing.T) {
	re := MustCompile(`a**`)
	got := spans(re.Matches("aaa"))
	want := spans(MustCompile(`a*`).Matches("aaa"))
	if len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("a** Matches = %v, want same as a* = %v", got, want)
	}
}

func TestMatchesNonOverlappingAndIncreasing(t *testing.T) {
	re := MustCompile(`\w+`)
	matches := re.Matches("the quick brown fox")
	for i := 1; i < len(matches); i++ {
		if matches[i].FullMatch.Start < matches[i-1].FullMatch.End {
			t.Fatalf("match %d starts at %d before match %d ends at %d",
				i, matches[i].FullMatch.Start, i-1, matches[i-1].FullMatch.End)
		}
	}
}

func TestAlternationPrefilterMatches(t *testing.T) {
	// cat|dog|bird is eligible for the Aho-Corasick alternation prefilter.
	re := MustCompile(`cat|dog|bird`)
	got := strs("I saw a cat and a bird", re.Matches("I saw a cat and a bird"))
	want := []string{"cat", "bird"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Matches = %v, want %v", got, want)
	}
}
