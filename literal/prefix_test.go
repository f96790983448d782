package literal

import (
	"testing"

	"github.com/gorelite/relite/compiler"
	"github.com/gorelite/relite/syntax"
)

func compileProg(t *testing.T, pattern string, opts compiler.Options) *compiler.Program {
	t.Helper()
	re, err := syntax.ParseRegexp(pattern)
	if err != nil {
		t.Fatalf("ParseRegexp(%q) error: %v", pattern, err)
	}
	prog, err := compiler.Compile(re, opts)
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", pattern, err)
	}
	return prog
}

func TestNewPrefixScannerAbsentWithoutFixedPrefix(t *testing.T) {
	prog := compileProg(t, `a|b`, compiler.Options{})
	if _, ok := NewPrefixScanner(prog); ok {
		t.Fatal("NewPrefixScanner ok=true for a pattern with no fixed prefix")
	}
}

func TestPrefixScannerNext(t *testing.T) {
	prog := compileProg(t, `foo\d+`, compiler.Options{})
	ps, ok := NewPrefixScanner(prog)
	if !ok {
		t.Fatal("NewPrefixScanner ok=false, want true")
	}
	input := []rune("xx foo1 yy foo2")
	start, ok := ps.Next(input, 0)
	if !ok || start != 3 {
		t.Fatalf("Next(0) = %d, %v, want 3, true", start, ok)
	}
	start, ok = ps.Next(input, start+1)
	if !ok || start != 11 {
		t.Fatalf("Next(4) = %d, %v, want 11, true", start, ok)
	}
	if _, ok := ps.Next(input, start+1); ok {
		t.Fatal("Next found a third occurrence that doesn't exist")
	}
}

func TestPrefixScannerNoOccurrence(t *testing.T) {
	prog := compileProg(t, `zzz\d+`, compiler.Options{})
	ps, ok := NewPrefixScanner(prog)
	if !ok {
		t.Fatal("NewPrefixScanner ok=false, want true")
	}
	if _, ok := ps.Next([]rune("no match here"), 0); ok {
		t.Fatal("Next found a match that doesn't exist")
	}
}
