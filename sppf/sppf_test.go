package sppf

import (
	"testing"

	"github.com/corrigan-dev/bnfgrammar/grammar"
	"github.com/corrigan-dev/bnfgrammar/term"
)

func TestEpsilonAndNullAreSingletonsAcrossPositions(t *testing.T) {
	f := NewForest()
	a := f.Epsilon()
	b := Label{Kind: EpsilonItem, Start: 7, End: 9}
	if a.Normalize() != b.Normalize() {
		t.Fatalf("epsilon labels at different positions must normalize equal")
	}
	if n, ok := f.Node(b); !ok || n.Label != a {
		t.Fatalf("position-shifted epsilon label must resolve to the singleton node")
	}
}

func TestMakeTerminalNodeIsIdempotent(t *testing.T) {
	f := NewForest()
	key := term.NewTerminal("x").Key()
	n1 := f.MakeTerminalNode(key, 2, 3)
	n2 := f.MakeTerminalNode(key, 2, 3)
	if n1 != n2 {
		t.Fatalf("identical terminal spans must resolve to the same node")
	}
	n3 := f.MakeTerminalNode(key, 2, 4)
	if n3 == n1 {
		t.Fatalf("a different end position must produce a distinct node")
	}
}

func TestMakeNodeEarlyReturnOnFirstSymbol(t *testing.T) {
	f := NewForest()
	rhs := grammar.Alternative{term.NewTerminal("a"), term.NewTerminal("b")}
	lhs := term.NewNonterminal("s").Key()
	v := f.MakeTerminalNode(term.NewTerminal("a").Key(), 0, 1).Label
	sizeBefore := f.Size()

	before := ItemView{LHS: lhs, RHS: &rhs, Dot: 0, Start: 0}
	got := f.MakeNode(before, 1, f.Null(), v)

	if got != v {
		t.Fatalf("advancing past the first symbol of a non-completed item must return v unchanged")
	}
	if f.Size() != sizeBefore {
		t.Fatalf("the early-return path must not create a new node")
	}
}

func TestMakeNodeBuildsSymbolNodeOnCompletion(t *testing.T) {
	f := NewForest()
	rhs := grammar.Alternative{term.NewTerminal("a"), term.NewTerminal("b")}
	lhs := term.NewNonterminal("s").Key()
	va := f.MakeTerminalNode(term.NewTerminal("a").Key(), 0, 1).Label
	vb := f.MakeTerminalNode(term.NewTerminal("b").Key(), 1, 2).Label

	mid := f.MakeNode(ItemView{LHS: lhs, RHS: &rhs, Dot: 0, Start: 0}, 1, f.Null(), va)
	if mid != va {
		t.Fatalf("advancing past the first of two symbols is still the early-return case")
	}

	final := f.MakeNode(ItemView{LHS: lhs, RHS: &rhs, Dot: 1, Start: 0}, 2, mid, vb)
	node, ok := f.Node(final)
	if !ok {
		t.Fatalf("completed item must produce a resolvable node")
	}
	if node.Label.Kind != SymbolItem || node.Label.Key != lhs {
		t.Fatalf("a completed item's label must be Symbol(lhs), got %+v", node.Label)
	}
	fams := node.Families()
	if len(fams) != 1 {
		t.Fatalf("expected exactly one family, got %d", len(fams))
	}
	if fams[0][0] != mid || fams[0][1] != vb {
		t.Fatalf("expected family (%s, %s), got (%s, %s)", mid, vb, fams[0][0], fams[0][1])
	}
}

func TestMakeNodeBuildsLR0ItemForLongerRHS(t *testing.T) {
	f := NewForest()
	rhs := grammar.Alternative{term.NewTerminal("a"), term.NewTerminal("b"), term.NewTerminal("c"), term.NewTerminal("d")}
	lhs := term.NewNonterminal("s").Key()
	va := f.MakeTerminalNode(term.NewTerminal("a").Key(), 0, 1).Label
	vb := f.MakeTerminalNode(term.NewTerminal("b").Key(), 1, 2).Label
	vc := f.MakeTerminalNode(term.NewTerminal("c").Key(), 2, 3).Label
	vd := f.MakeTerminalNode(term.NewTerminal("d").Key(), 3, 4).Label

	mid1 := f.MakeNode(ItemView{LHS: lhs, RHS: &rhs, Dot: 0, Start: 0}, 1, f.Null(), va)
	if mid1 != va {
		t.Fatalf("first symbol must be the early-return case")
	}
	mid2 := f.MakeNode(ItemView{LHS: lhs, RHS: &rhs, Dot: 1, Start: 0}, 2, mid1, vb)
	if mid2 != vb {
		t.Fatalf("advancing from dot 1 of an unfinished item must still be the early-return case")
	}
	mid3 := f.MakeNode(ItemView{LHS: lhs, RHS: &rhs, Dot: 2, Start: 0}, 3, mid2, vc)
	node, ok := f.Node(mid3)
	if !ok {
		t.Fatalf("the third symbol must build an LR0Item packing node")
	}
	if node.Label.Kind != LR0Item || node.Label.Dot != 3 {
		t.Fatalf("expected LR0Item at dot 3, got %+v", node.Label)
	}

	final := f.MakeNode(ItemView{LHS: lhs, RHS: &rhs, Dot: 3, Start: 0}, 4, mid3, vd)
	fnode, ok := f.Node(final)
	if !ok || fnode.Label.Kind != SymbolItem {
		t.Fatalf("completing the fourth symbol must build a Symbol node, got %+v", final)
	}
}

func TestMakeNodeDedupesRepeatedFamilies(t *testing.T) {
	f := NewForest()
	rhs := grammar.Alternative{term.NewTerminal("a"), term.NewTerminal("b")}
	lhs := term.NewNonterminal("s").Key()
	va := f.MakeTerminalNode(term.NewTerminal("a").Key(), 0, 1).Label
	vb := f.MakeTerminalNode(term.NewTerminal("b").Key(), 1, 2).Label
	mid := f.MakeNode(ItemView{LHS: lhs, RHS: &rhs, Dot: 0, Start: 0}, 1, f.Null(), va)

	final1 := f.MakeNode(ItemView{LHS: lhs, RHS: &rhs, Dot: 1, Start: 0}, 2, mid, vb)
	final2 := f.MakeNode(ItemView{LHS: lhs, RHS: &rhs, Dot: 1, Start: 0}, 2, mid, vb)
	if final1 != final2 {
		t.Fatalf("repeated MakeNode calls with identical inputs must resolve to the same label")
	}
	node, _ := f.Node(final1)
	if len(node.Families()) != 1 {
		t.Fatalf("an identical family added twice must be deduplicated, got %d families", len(node.Families()))
	}
}

func TestMakeNullableSymbolIsIdempotentAndReusable(t *testing.T) {
	f := NewForest()
	lhs := term.NewNonterminal("empty").Key()
	l1 := f.MakeNullableSymbol(lhs, 3)
	l2 := f.MakeNullableSymbol(lhs, 3)
	if l1 != l2 {
		t.Fatalf("repeated calls at the same position must resolve to the same node")
	}
	node, ok := f.Node(l1)
	if !ok || node.Label.Kind != SymbolItem {
		t.Fatalf("expected a Symbol node, got %+v", l1)
	}
	fams := node.Families()
	if len(fams) != 1 || fams[0][0] != f.Epsilon() || fams[0][1] != f.Null() {
		t.Fatalf("expected a single (Epsilon, Null) family, got %v", fams)
	}
}

func TestMakeNodeAmbiguousGrammarProducesTwoFamilies(t *testing.T) {
	// Two distinct derivations of the same (lhs, start, end) span, as arises
	// from an ambiguous grammar, must be packed into one node with two
	// families rather than two separate nodes (§8 "SPPF shape").
	f := NewForest()
	rhs := grammar.Alternative{term.NewNonterminal("a"), term.NewNonterminal("b")}
	lhs := term.NewNonterminal("s").Key()
	w1 := Label{Kind: SymbolItem, Key: term.NewNonterminal("x").Key(), Start: 0, End: 1}
	w2 := Label{Kind: SymbolItem, Key: term.NewNonterminal("y").Key(), Start: 0, End: 1}
	v := Label{Kind: SymbolItem, Key: term.NewNonterminal("z").Key(), Start: 1, End: 2}

	mid1 := f.MakeNode(ItemView{LHS: lhs, RHS: &rhs, Dot: 0, Start: 0}, 1, f.Null(), w1)
	mid2 := f.MakeNode(ItemView{LHS: lhs, RHS: &rhs, Dot: 0, Start: 0}, 1, f.Null(), w2)

	final1 := f.MakeNode(ItemView{LHS: lhs, RHS: &rhs, Dot: 1, Start: 0}, 2, mid1, v)
	final2 := f.MakeNode(ItemView{LHS: lhs, RHS: &rhs, Dot: 1, Start: 0}, 2, mid2, v)

	if final1 != final2 {
		t.Fatalf("both derivations must converge on the same Symbol(lhs) node")
	}
	node, _ := f.Node(final1)
	if len(node.Families()) != 2 {
		t.Fatalf("expected 2 distinct packed families, got %d", len(node.Families()))
	}
}
