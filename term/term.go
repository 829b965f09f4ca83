/*
Package term implements symbols and symbol interning for the bnfgrammar
toolkit.

A Term is either a Terminal, carrying literal content, or a Nonterminal,
carrying a name. Every Term carries a 64-bit Key computed deterministically
from its (kind, content) pair when it is created, so that grammars and Earley
items can compare and hash symbols by key rather than by content. A Table
stores Terms by Key so that a Key can be resolved back to its Term.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package term

import (
	"fmt"
	"strings"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/maps/treemap"
)

// Kind distinguishes Terminals from Nonterminals.
type Kind int8

const (
	// Terminal is a symbol matched directly against input.
	Terminal Kind = iota
	// Nonterminal is a symbol defined by a grammar rule.
	Nonterminal
)

func (k Kind) String() string {
	if k == Terminal {
		return "Terminal"
	}
	return "Nonterminal"
}

// Key is the interned, comparable handle for a Term. Two terms with
// identical (kind, content) always share a Key.
type Key uint64

// Term is a grammar symbol: a Terminal with literal content, or a
// Nonterminal with a name.
type Term struct {
	Kind    Kind
	Content string
	key     Key
}

// NewTerminal creates a (not yet interned) terminal term with the given
// content.
func NewTerminal(content string) Term {
	return Term{Kind: Terminal, Content: content, key: keyFor(Terminal, content)}
}

// NewNonterminal creates a (not yet interned) nonterminal term with the
// given name.
func NewNonterminal(name string) Term {
	return Term{Kind: Nonterminal, Content: name, key: keyFor(Nonterminal, name)}
}

// Key returns the term's interned key. Two equal terms always share a key.
func (t Term) Key() Key {
	return t.key
}

// IsTerminal reports whether t is a Terminal.
func (t Term) IsTerminal() bool {
	return t.Kind == Terminal
}

// IsNonterminal reports whether t is a Nonterminal.
func (t Term) IsNonterminal() bool {
	return t.Kind == Nonterminal
}

// IsEpsilon reports whether t is the empty terminal.
func (t Term) IsEpsilon() bool {
	return t.Kind == Terminal && t.Content == ""
}

// IsAtomicTerminal reports whether t is a terminal whose content is exactly
// one character (rune).
func (t Term) IsAtomicTerminal() bool {
	return t.Kind == Terminal && len([]rune(t.Content)) == 1
}

// TerminalContent returns the terminal's content and true, or "" and false if
// t is a Nonterminal. The failure is reported as a plain bool, not as a
// cfgerror.NotATerminal error.
func (t Term) TerminalContent() (string, bool) {
	if t.Kind != Terminal {
		return "", false
	}
	return t.Content, true
}

// Atomize splits a terminal into the ordered sequence of its single-character
// terminals. ok is false if t is a Nonterminal.
func (t Term) Atomize() (atoms []Term, ok bool) {
	if t.Kind != Terminal {
		return nil, false
	}
	runes := []rune(t.Content)
	atoms = make([]Term, len(runes))
	for i, r := range runes {
		atoms[i] = NewTerminal(string(r))
	}
	return atoms, true
}

func (t Term) String() string {
	if t.Kind == Nonterminal {
		return fmt.Sprintf("<%s>", t.Content)
	}
	return fmt.Sprintf(`"%s"`, EscapeContent(t.Content))
}

// keyFor computes a deterministic key for (kind, content) via a structural
// hash, truncated to 64 bits. Collisions between distinct (kind, content)
// pairs are astronomically unlikely for the small grammars this toolkit
// targets, matching the teacher's own use of structhash for item identity.
func keyFor(kind Kind, content string) Key {
	h, err := structhash.Hash(struct {
		Kind    Kind
		Content string
	}{kind, content}, 1)
	if err != nil {
		panic(err)
	}
	var k Key
	for i := 0; i < len(h) && i < 16; i++ {
		k = k*131 + Key(h[i])
	}
	return k
}

// Table interns Terms by key, so a Key can be resolved back to its Term.
// Safe only for single-threaded use, matching the toolkit's concurrency
// model.
type Table struct {
	byKey *treemap.Map // Key -> Term
}

// NewTable creates an empty interning table.
func NewTable() *Table {
	return &Table{byKey: treemap.NewWith(func(a, b interface{}) int {
		ka, kb := a.(Key), b.(Key)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	})}
}

// Intern resolves-or-defines t in the table. Returns the interned Term
// (identical key, canonical content) and whether it was already present.
func (tab *Table) Intern(t Term) (Term, bool) {
	if existing, found := tab.byKey.Get(t.key); found {
		return existing.(Term), true
	}
	tab.byKey.Put(t.key, t)
	return t, false
}

// Lookup resolves a Key back to its Term, if interned.
func (tab *Table) Lookup(k Key) (Term, bool) {
	v, found := tab.byKey.Get(k)
	if !found {
		return Term{}, false
	}
	return v.(Term), true
}

// Size returns the number of distinct interned terms.
func (tab *Table) Size() int {
	return tab.byKey.Size()
}

// Each iterates the table in key order, calling mapper for every term.
func (tab *Table) Each(mapper func(Key, Term)) {
	it := tab.byKey.Iterator()
	for it.Next() {
		mapper(it.Key().(Key), it.Value().(Term))
	}
}

// EscapeContent renders terminal content the way the toolkit's textual
// rendering rules require: escape-defaulted, matching Rust's
// str::escape_default used by the original grammar's Display impl.
func EscapeContent(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
