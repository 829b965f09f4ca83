/*
Package sppf implements a Shared Packed Parse Forest, Scott & Johnstone
style: nodes are identified by a Label (item, start, end) and hold a
deduplicated set of packed families, so every derivation tree of the input
corresponds to a distinct choice of family at each node (§3, §4.6).

Unlike the Grune & Jacobs-style or/and-edge forest this package's teacher
used, nodes here are addressed purely by value (Label), which keeps the
forest a plain map and avoids ownership cycles (§9 "Graph cycles in SPPF").

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package sppf

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/corrigan-dev/bnfgrammar/grammar"
	"github.com/corrigan-dev/bnfgrammar/iterset"
	"github.com/corrigan-dev/bnfgrammar/term"
)

// tracer traces with key 'bnfgrammar.sppf'.
func tracer() tracing.Trace {
	return tracing.Select("bnfgrammar.sppf")
}

// ItemKind distinguishes the four label item shapes of §3.
type ItemKind int8

const (
	// SymbolItem labels a node by a completed nonterminal's key.
	SymbolItem ItemKind = iota
	// LR0Item labels a node by an in-progress item (lhs, rhs identity, dot).
	LR0Item
	// EpsilonItem is the singleton label for a reduced epsilon production.
	EpsilonItem
	// NullItem is the singleton placeholder used to pad unary families.
	NullItem
)

// Label identifies an SPPF node. Epsilon and Null labels are
// position-insensitive: their (Start, End) is ignored for identity, which
// Normalize enforces before the label is used as a map key.
type Label struct {
	Kind ItemKind
	// Key is the symbol key for a SymbolItem, or the lhs key for an LR0Item.
	Key   term.Key
	RHS   *grammar.Alternative // identity of the shared right-hand side, LR0Item only
	Dot   int                  // LR0Item only
	Start uint64
	End   uint64
}

// Normalize zeroes the position fields of position-insensitive labels
// (Epsilon, Null) so that two such labels always compare equal as map keys.
func (l Label) Normalize() Label {
	if l.Kind == EpsilonItem || l.Kind == NullItem {
		l.Start, l.End = 0, 0
	}
	return l
}

func (l Label) String() string {
	switch l.Kind {
	case SymbolItem:
		return fmt.Sprintf("(key=%d, %d..%d)", l.Key, l.Start, l.End)
	case LR0Item:
		return fmt.Sprintf("(key=%d@%d, %d..%d)", l.Key, l.Dot, l.Start, l.End)
	case EpsilonItem:
		return "ε"
	default:
		return "∅"
	}
}

// family is a packed, possibly-unary pair of child labels.
type family struct {
	W, V Label
}

// Node is an SPPF node: a Label plus the deduplicated set of families that
// witness its derivations.
type Node struct {
	Label    Label
	families *iterset.Set
}

// Families returns the node's families as (w, v) label pairs, in discovery
// order. A unary family has v == Forest.Null().
func (n *Node) Families() [][2]Label {
	out := make([][2]Label, 0, n.families.Len())
	n.families.Each(func(item interface{}) {
		f := item.(family)
		out = append(out, [2]Label{f.W, f.V})
	})
	return out
}

// Forest is a Shared Packed Parse Forest.
type Forest struct {
	nodes map[Label]*Node
	eps   *Node
	null  *Node
	root  *Node
}

// NewForest returns an empty forest with its Epsilon and Null singleton
// nodes already inserted.
func NewForest() *Forest {
	f := &Forest{nodes: make(map[Label]*Node)}
	f.eps = f.getOrCreate(Label{Kind: EpsilonItem})
	f.null = f.getOrCreate(Label{Kind: NullItem})
	return f
}

// Epsilon returns the singleton Epsilon label.
func (f *Forest) Epsilon() Label { return f.eps.Label }

// Null returns the singleton Null label.
func (f *Forest) Null() Label { return f.null.Label }

// Root returns the forest's accepting node, if SetRoot has been called.
func (f *Forest) Root() (*Node, bool) {
	if f.root == nil {
		return nil, false
	}
	return f.root, true
}

// SetRoot records node as the forest's accepting root.
func (f *Forest) SetRoot(node *Node) {
	f.root = node
}

// Node resolves a label to its node, if present.
func (f *Forest) Node(label Label) (*Node, bool) {
	n, ok := f.nodes[label.Normalize()]
	return n, ok
}

// Size returns the number of distinct nodes in the forest.
func (f *Forest) Size() int {
	return len(f.nodes)
}

func (f *Forest) getOrCreate(label Label) *Node {
	label = label.Normalize()
	if n, ok := f.nodes[label]; ok {
		return n
	}
	n := &Node{Label: label, families: iterset.NewSet(0)}
	f.nodes[label] = n
	return n
}

// MakeTerminalNode looks up or creates a Symbol node for a scanned terminal
// spanning [start, end). §4.6 "Make terminal node".
func (f *Forest) MakeTerminalNode(symbolKey term.Key, start, end uint64) *Node {
	return f.getOrCreate(Label{Kind: SymbolItem, Key: symbolKey, Start: start, End: end})
}

// ItemView is the minimal view of an Earley item being advanced that
// MakeNode needs: its lhs key, the shared right-hand side it was derived
// from, its dot position *before* advancing, and the column it started in.
type ItemView struct {
	LHS   term.Key
	RHS   *grammar.Alternative
	Dot   int
	Start uint64
}

// MakeNullableSymbol inserts (idempotently) the Symbol(lhs) node at the
// zero-width span (at, at) with a unary Epsilon family, for the case §4.6
// describes as completing a pure-nullable item (one whose sppf node is
// still Null because it consumed no input). The predictor reuses this node
// for other occurrences of lhs later in the same column.
func (f *Forest) MakeNullableSymbol(lhs term.Key, at uint64) Label {
	node := f.getOrCreate(Label{Kind: SymbolItem, Key: lhs, Start: at, End: at})
	node.families.Add(family{W: f.Epsilon(), V: f.Null()})
	return node.Label
}

// MakeNode implements §4.6's make_node: called when advancing before from
// (lhs, rhs, dot, start) to (lhs, rhs, dot+1, start), ending at end.
//
//   - If dot <= 1 and the advanced item is not completed, returns v unchanged
//     (no new node is created).
//   - Otherwise builds a label (Symbol(lhs) if the advanced item is
//     completed, else LR0Item(lhs, rhs, dot+1)) at (start, end), inserts it
//     idempotently, and records a unary family (v, Null) if w is Null, else
//     a binary family (w, v).
//
// Returns the resulting node's label, which the caller records as the
// advanced item's sppf node.
func (f *Forest) MakeNode(before ItemView, end uint64, w, v Label) Label {
	advancedDot := before.Dot + 1
	completed := advancedDot == len(*before.RHS)
	if before.Dot <= 1 && !completed {
		return v
	}
	var label Label
	if completed {
		label = Label{Kind: SymbolItem, Key: before.LHS, Start: before.Start, End: end}
	} else {
		label = Label{Kind: LR0Item, Key: before.LHS, RHS: before.RHS, Dot: advancedDot, Start: before.Start, End: end}
	}
	node := f.getOrCreate(label)
	if w == f.Null() {
		node.families.Add(family{W: v, V: f.Null()})
	} else {
		node.families.Add(family{W: w, V: v})
	}
	tracer().Debugf("make_node %s family (%s, %s)", node.Label, w, v)
	return node.Label
}
