package cfgerror

import (
	"errors"
	"testing"
)

func TestErrorCarriesKindAndMessage(t *testing.T) {
	err := New(EmptyGrammar, "grammar %q has no rules", "s")
	if err.Kind() != EmptyGrammar {
		t.Fatalf("expected EmptyGrammar, got %v", err.Kind())
	}
	want := "EmptyGrammar: grammar \"s\" has no rules"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestErrorsIsMatchesByKind(t *testing.T) {
	a := New(UnknownNonterminal, "a")
	b := New(UnknownNonterminal, "b")
	c := New(NotATerminal, "c")
	if !errors.Is(a, b) {
		t.Fatalf("expected two errors of the same kind to match errors.Is")
	}
	if errors.Is(a, c) {
		t.Fatalf("expected errors of different kinds not to match")
	}
}

func TestKindStringCoversAllConstants(t *testing.T) {
	kinds := []Kind{
		InvalidGrammarSyntax, UnknownNonterminal, NotATerminal,
		InfinitelyRecursiveProduction, EmptyGrammar,
	}
	for _, k := range kinds {
		if k.String() == "UnknownErrorKind" {
			t.Fatalf("expected a named String() for %d", k)
		}
	}
}
