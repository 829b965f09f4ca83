/*
Package grammar implements context-free grammars as ordered sequences of
Rules over a distinguished start symbol, plus the normalization the parser
needs (terminal atomization) and the textual rendering rules of §6.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package grammar

import (
	"sort"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/schuko/tracing"

	"github.com/corrigan-dev/bnfgrammar/cfgerror"
	"github.com/corrigan-dev/bnfgrammar/term"
)

// tracer traces with key 'bnfgrammar.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("bnfgrammar.grammar")
}

// Alternative is one right-hand-side option: an ordered sequence of terms.
// Earley items and grammar rules reference an Alternative by pointer, so
// that identical productions compare and hash by identity rather than by
// deep content (§9 "Shared right-hand sides").
type Alternative []term.Term

// Alternatives is an ordered, deduplicated sequence of Alternative options
// for one rule's right-hand side.
type Alternatives struct {
	list []*Alternative
}

// NewAlternatives builds an Alternatives from a sequence of term sequences,
// removing content-duplicate alternatives (first occurrence wins).
func NewAlternatives(alts ...[]term.Term) *Alternatives {
	a := &Alternatives{}
	for _, alt := range alts {
		a.add(alt)
	}
	return a
}

func (a *Alternatives) add(alt []term.Term) {
	cp := make(Alternative, len(alt))
	copy(cp, alt)
	for _, existing := range a.list {
		if alternativeEqual(*existing, cp) {
			return
		}
	}
	a.list = append(a.list, &cp)
}

func alternativeEqual(a, b Alternative) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Content != b[i].Content {
			return false
		}
	}
	return true
}

// List returns the ordered, shared-by-reference alternatives.
func (a *Alternatives) List() []*Alternative {
	return a.list
}

// Merge returns a new Alternatives holding the concatenation of a and
// other's alternatives, in input order, with content-duplicates removed
// (first occurrence wins).
func (a *Alternatives) Merge(other *Alternatives) *Alternatives {
	merged := &Alternatives{}
	if a != nil {
		for _, alt := range a.list {
			merged.add(*alt)
		}
	}
	if other != nil {
		for _, alt := range other.list {
			merged.add(*alt)
		}
	}
	return merged
}

func (a *Alternatives) String() string {
	parts := make([]string, len(a.list))
	for i, alt := range a.list {
		terms := make([]string, len(*alt))
		for j, t := range *alt {
			terms[j] = t.String()
		}
		parts[i] = strings.Join(terms, " ")
	}
	return strings.Join(parts, " | ")
}

// Rule is a production (lhs, rhs).
type Rule struct {
	LHS term.Term
	RHS *Alternatives
}

// Merge returns a new Rule with the same lhs and the deduplicated
// concatenation of both rules' alternatives, in input order.
func (r *Rule) Merge(other *Rule) *Rule {
	return &Rule{LHS: r.LHS, RHS: r.RHS.Merge(other.RHS)}
}

func (r *Rule) String() string {
	return r.LHS.String() + " ::= " + r.RHS.String()
}

// Grammar is an ordered sequence of Rules with a distinguished start symbol.
type Grammar struct {
	start term.Term
	rules []*Rule
	byLHS *treemap.Map // term.Key -> *Rule
	terms *term.Table
}

// Start returns the grammar's start symbol.
func (g *Grammar) Start() term.Term {
	return g.start
}

// Rules returns the grammar's rules in canonical order: sorted by lhs name,
// then with the start rule swapped into index 0 (the rule it displaces takes
// the start rule's sorted position).
func (g *Grammar) Rules() []*Rule {
	return g.rules
}

// Rule looks up the rule whose lhs has the given key.
func (g *Grammar) Rule(lhs term.Key) (*Rule, bool) {
	v, found := g.byLHS.Get(lhs)
	if !found {
		return nil, false
	}
	return v.(*Rule), true
}

// Terms returns the grammar's symbol interning table.
func (g *Grammar) Terms() *term.Table {
	return g.terms
}

// Validate checks grammar invariant 1 of §3: every Nonterminal appearing on
// any right-hand side has a defining rule. Returns a
// cfgerror.UnknownNonterminal error naming the first offender found, in
// rule-then-alternative-then-position order.
func (g *Grammar) Validate() error {
	for _, rule := range g.rules {
		for _, alt := range rule.RHS.List() {
			for _, t := range *alt {
				if t.IsNonterminal() {
					if _, found := g.Rule(t.Key()); !found {
						return cfgerror.New(cfgerror.UnknownNonterminal,
							"nonterminal %s has no defining rule (referenced from %s)",
							t.String(), rule.LHS.String())
					}
				}
			}
		}
	}
	return nil
}

func (g *Grammar) String() string {
	lines := make([]string, len(g.rules))
	for i, r := range g.rules {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}

// GoString renders the grammar as Go builder source, implementing
// fmt.GoStringer. Useful for golden-file tests and debugging.
func (g *Grammar) GoString() string {
	var b strings.Builder
	b.WriteString("grammar.NewBuilder().\n")
	for _, r := range g.rules {
		b.WriteString("\tRule(grammar.Rule{LHS: ")
		b.WriteString(goTerm(r.LHS))
		b.WriteString(", RHS: grammar.NewAlternatives(\n")
		for _, alt := range r.RHS.List() {
			b.WriteString("\t\t[]term.Term{")
			for i, t := range *alt {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(goTerm(t))
			}
			b.WriteString("},\n")
		}
		b.WriteString("\t)}).\n")
	}
	b.WriteString("\tBuild()")
	return b.String()
}

func goTerm(t term.Term) string {
	if t.IsNonterminal() {
		return "term.NewNonterminal(\"" + term.EscapeContent(t.Content) + "\")"
	}
	return "term.NewTerminal(\"" + term.EscapeContent(t.Content) + "\")"
}

// Equal reports whether g and other have the same rules in the same
// canonical order, comparing by content (not by pointer/key identity, which
// differs across independently built grammars).
func (g *Grammar) Equal(other *Grammar) bool {
	if other == nil || len(g.rules) != len(other.rules) {
		return false
	}
	for i, r := range g.rules {
		o := other.rules[i]
		if r.LHS.Kind != o.LHS.Kind || r.LHS.Content != o.LHS.Content {
			return false
		}
		if len(r.RHS.List()) != len(o.RHS.List()) {
			return false
		}
		for j, alt := range r.RHS.List() {
			if !alternativeEqual(*alt, *o.RHS.List()[j]) {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of g: new Rule and Alternative values throughout,
// so that AtomizeTerminals-ing the clone never mutates g. A parser takes a
// clone of its grammar before atomizing, per §3 "Lifecycles".
func (g *Grammar) Clone() *Grammar {
	rules := make([]*Rule, len(g.rules))
	for i, r := range g.rules {
		alts := make([]Alternative, len(r.RHS.List()))
		for j, alt := range r.RHS.List() {
			cp := make(Alternative, len(*alt))
			copy(cp, *alt)
			alts[j] = cp
		}
		na := &Alternatives{}
		for j := range alts {
			na.list = append(na.list, &alts[j])
		}
		rules[i] = &Rule{LHS: r.LHS, RHS: na}
	}
	clone := &Grammar{start: g.start, rules: rules, terms: g.terms}
	clone.rebuildLUT()
	return clone
}

// AtomizeTerminals rewrites every rule's right-hand sides so that every
// element is either a Nonterminal or an atomic Terminal, per §3/§4.1. This
// is the one-shot normalization required before running the Earley parser;
// it is idempotent (an already-atomized grammar is returned unchanged in
// content, though new Alternative pointers are allocated).
func (g *Grammar) AtomizeTerminals() {
	for _, rule := range g.rules {
		na := &Alternatives{}
		for _, alt := range rule.RHS.List() {
			var rewritten Alternative
			for _, t := range *alt {
				if t.IsNonterminal() || t.IsEpsilon() || t.IsAtomicTerminal() {
					rewritten = append(rewritten, t)
					continue
				}
				atoms, _ := t.Atomize()
				rewritten = append(rewritten, atoms...)
			}
			na.add(rewritten)
		}
		rule.RHS = na
	}
	g.rebuildLUT()
	tracer().Debugf("atomized %d rules", len(g.rules))
}

func (g *Grammar) rebuildLUT() {
	byLHS := newLUT()
	for _, r := range g.rules {
		byLHS.Put(r.LHS.Key(), r)
	}
	g.byLHS = byLHS
}

func newLUT() *treemap.Map {
	return treemap.NewWith(func(a, b interface{}) int {
		ka, kb := a.(term.Key), b.(term.Key)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	})
}

// Builder accumulates Rules and produces a Grammar via Build.
type Builder struct {
	rules []Rule
}

// NewBuilder creates an empty grammar builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Rule appends a single rule.
func (b *Builder) Rule(r Rule) *Builder {
	b.rules = append(b.rules, r)
	return b
}

// RuleSlice appends a slice of rules, in order.
func (b *Builder) RuleSlice(rs []Rule) *Builder {
	b.rules = append(b.rules, rs...)
	return b
}

// Build collapses the accumulated rules into a Grammar, per §4.1:
//  1. remembers the first rule's lhs as the prospective start;
//  2. sorts rules by lhs name, folding consecutive same-lhs rules via merge;
//  3. restores the start rule to index 0;
//  4. builds the lhs-key -> Rule lookup map.
//
// Fails with cfgerror.EmptyGrammar when given zero rules.
func (b *Builder) Build() (*Grammar, error) {
	if len(b.rules) == 0 {
		return nil, cfgerror.New(cfgerror.EmptyGrammar, "cannot build a grammar with no rules")
	}
	terms := term.NewTable()
	start := b.rules[0].LHS
	interned := make([]Rule, len(b.rules))
	for i, r := range b.rules {
		lhs, _ := terms.Intern(r.LHS)
		interned[i] = Rule{LHS: lhs, RHS: r.RHS}
	}
	start, _ = terms.Intern(start)

	sort.SliceStable(interned, func(i, j int) bool {
		return interned[i].LHS.Content < interned[j].LHS.Content
	})

	collapsed := make([]*Rule, 0, len(interned))
	for _, curr := range interned {
		curr := curr
		if n := len(collapsed); n > 0 && collapsed[n-1].LHS.Key() == curr.LHS.Key() {
			collapsed[n-1] = collapsed[n-1].Merge(&curr)
			continue
		}
		collapsed = append(collapsed, &curr)
	}

	startIdx := -1
	for i, r := range collapsed {
		if r.LHS.Key() == start.Key() {
			startIdx = i
			break
		}
	}
	if startIdx > 0 {
		collapsed[0], collapsed[startIdx] = collapsed[startIdx], collapsed[0]
	}

	g := &Grammar{start: start, rules: collapsed, terms: terms}
	g.rebuildLUT()
	return g, nil
}
