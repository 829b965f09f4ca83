/*
Package earley implements an Earley chart parser over single-character
input, extended with Leo's deterministic-reduction optimization (for
linear-time recognition of right-recursive grammars) and Scott &
Johnstone-style SPPF construction, so ambiguous and highly non-deterministic
grammars are handled without combinatorial blow-up (§4.4-§4.6).

Unlike this package's teacher, which drives its own Earley parser off a
gorgo.Token stream produced by a scanner.Tokenizer, this parser consumes a
plain string one character at a time: column i+1 carries the i-th input
character. The predict/scan/complete driver, Leo optimization, and tracing
idiom are adapted from the teacher's own lr/earley package.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package earley

import (
	"bytes"
	"fmt"
	"unsafe"

	"github.com/cnf/structhash"
	"github.com/npillmayer/schuko/tracing"

	"github.com/corrigan-dev/bnfgrammar/cfgerror"
	"github.com/corrigan-dev/bnfgrammar/grammar"
	"github.com/corrigan-dev/bnfgrammar/sppf"
	"github.com/corrigan-dev/bnfgrammar/term"
)

// tracer traces with key 'bnfgrammar.earley'.
func tracer() tracing.Trace {
	return tracing.Select("bnfgrammar.earley")
}

// Item is an Earley item: (lhs, rhs, dot, start), plus the SPPF label
// accumulated for it so far. Equality and hashing (see hash, below) use
// lhs, the rhs's pointer identity, dot and start — the sppf label is
// deliberately excluded, per §3 "Earley item".
type Item struct {
	LHS   term.Key
	RHS   *grammar.Alternative
	Dot   int
	Start int
	Sppf  sppf.Label
}

// AtDot returns the term at the dot position, or false if the item is
// complete.
func (it *Item) AtDot() (term.Term, bool) {
	if it.Dot >= len(*it.RHS) {
		return term.Term{}, false
	}
	return (*it.RHS)[it.Dot], true
}

// Completed reports whether the dot has reached the end of the rhs.
func (it *Item) Completed() bool {
	return it.Dot == len(*it.RHS)
}

// advance returns a copy of it with the dot moved one position to the
// right; the copy's Sppf is left zero-valued for the caller to fill in via
// sppf.Forest.MakeNode.
func (it *Item) advance() *Item {
	return &Item{LHS: it.LHS, RHS: it.RHS, Dot: it.Dot + 1, Start: it.Start}
}

// string renders it using g's symbol table to resolve the lhs key back to
// its name, in the teacher's "lhs ::= a b . c (start)" dotted-rule style.
func (it *Item) string(g *grammar.Grammar) string {
	var b bytes.Buffer
	if lhs, ok := g.Terms().Lookup(it.LHS); ok {
		fmt.Fprintf(&b, "%s ::= ", lhs.String())
	} else {
		fmt.Fprintf(&b, "%d ::= ", it.LHS)
	}
	for i, t := range *it.RHS {
		if i == it.Dot {
			b.WriteString(". ")
		}
		fmt.Fprintf(&b, "%s ", t.String())
	}
	if it.Dot == len(*it.RHS) {
		b.WriteString(". ")
	}
	fmt.Fprintf(&b, "(%d)", it.Start)
	return b.String()
}

func uintptrOf(rhs *grammar.Alternative) uintptr {
	return uintptr(unsafe.Pointer(rhs))
}

func hash(it *Item) uint64 {
	h, err := structhash.Hash(struct {
		LHS   term.Key
		RHS   uintptr
		Dot   int
		Start int
	}{it.LHS, uintptrOf(it.RHS), it.Dot, it.Start}, 1)
	if err != nil {
		panic(err)
	}
	var v uint64
	for i := 0; i < len(h); i++ {
		v = v*131 + uint64(h[i])
	}
	return v
}

// Column holds the Earley items discovered while processing one input
// position, deduplicated by (lhs, rhs identity, dot, start). Mirrors the
// Rust original's Column directly: an ordered slice plus a hash set, rather
// than this module's general-purpose iterset.Set, since the main loop needs
// positional indexing while the set grows (§4.3).
type Column struct {
	Symbol       rune
	items        []*Item
	seen         map[uint64]*Item
	transitive   map[term.Key]*Item
	nullableNode map[term.Key]sppf.Label
	terminal     sppf.Label // the Symbol node for the character entering this column; unset for column 0
}

func newColumn(symbol rune) *Column {
	return &Column{
		Symbol:       symbol,
		seen:         make(map[uint64]*Item),
		transitive:   make(map[term.Key]*Item),
		nullableNode: make(map[term.Key]sppf.Label),
	}
}

// add inserts it unless an equal item (by lhs, rhs identity, dot, start) is
// already present. Returns the stored item, which is it itself when newly
// inserted, or the previously stored item on a duplicate.
func (c *Column) add(it *Item) *Item {
	h := hash(it)
	if existing, ok := c.seen[h]; ok {
		return existing
	}
	c.seen[h] = it
	c.items = append(c.items, it)
	return it
}

func (c *Column) addTransitive(it *Item) {
	if _, ok := c.transitive[it.LHS]; !ok {
		c.transitive[it.LHS] = it
	}
}

func (c *Column) len() int { return len(c.items) }

// Parser recognizes input strings against a Grammar and, while doing so,
// builds a Shared Packed Parse Forest witnessing every derivation.
type Parser struct {
	g        *grammar.Grammar // clone of the caller's grammar, atomized
	nullable map[term.Key]bool
	columns  []*Column
	forest   *sppf.Forest
}

// NewParser builds a parser for g: clones it, atomizes the clone's
// terminals, and computes the nullable-nonterminal fixpoint (§3, §4.4).
func NewParser(g *grammar.Grammar) *Parser {
	clone := g.Clone()
	clone.AtomizeTerminals()
	p := &Parser{g: clone}
	p.computeNullable()
	return p
}

// computeNullable implements §4.4's fixpoint: N is nullable if any of its
// alternatives consists entirely of elements that are epsilon or already
// known nullable.
func (p *Parser) computeNullable() {
	p.nullable = make(map[term.Key]bool)
	updated := true
	for updated {
		updated = false
		for _, rule := range p.g.Rules() {
			key := rule.LHS.Key()
			if p.nullable[key] {
				continue
			}
			for _, alt := range rule.RHS.List() {
				if allNullable(*alt, p.nullable) {
					p.nullable[key] = true
					updated = true
					break
				}
			}
		}
	}
}

func allNullable(alt grammar.Alternative, nullable map[term.Key]bool) bool {
	for _, t := range alt {
		if t.IsEpsilon() {
			continue
		}
		if t.IsNonterminal() && nullable[t.Key()] {
			continue
		}
		return false
	}
	return true
}

// init builds the column vector for input, seeds column 0 with the start
// rule's alternatives, and precomputes each column's terminal SPPF node.
// Returns cfgerror.EmptyGrammar if the grammar has no start rule.
func (p *Parser) init(input string) error {
	runes := []rune(input)
	n := len(runes)
	p.forest = sppf.NewForest()
	p.columns = make([]*Column, 0, n+1)
	p.columns = append(p.columns, newColumn(0))
	for _, r := range runes {
		p.columns = append(p.columns, newColumn(r))
	}
	for i := 1; i <= n; i++ {
		key := term.NewTerminal(string(runes[i-1])).Key()
		node := p.forest.MakeTerminalNode(key, uint64(i-1), uint64(i))
		p.columns[i].terminal = node.Label
	}

	startRule, found := p.g.Rule(p.g.Start().Key())
	if !found {
		return cfgerror.New(cfgerror.EmptyGrammar, "cannot seed earley state table without a start rule")
	}
	for _, alt := range startRule.RHS.List() {
		p.columns[0].add(&Item{LHS: startRule.LHS.Key(), RHS: alt, Dot: 0, Start: 0, Sppf: p.forest.Null()})
	}
	return nil
}

// chartParse runs the main predict/scan/complete loop over every column,
// re-reading each column's length every step since add may grow it (§4.5).
func (p *Parser) chartParse() {
	for col := 0; col < len(p.columns); col++ {
		idx := 0
		for idx < p.columns[col].len() {
			it := p.columns[col].items[idx]
			if sym, ok := it.AtDot(); ok {
				switch {
				case sym.IsNonterminal():
					p.predict(col, idx, sym)
				case sym.IsEpsilon():
					p.scanEpsilon(col, it)
				default:
					nextCol := col + 1
					if nextCol < len(p.columns) {
						p.scan(nextCol, it, sym)
					}
				}
			} else {
				p.complete(col, idx)
			}
			idx++
		}
		tracer().Debugf("column %d has %d items", col, p.columns[col].len())
	}
}

// predict implements §4.5's Predict: seed column with every alternative of
// B's rule, and, when B is nullable, advance the current item in place,
// attaching an already-memoized nullable SPPF node for B if one exists in
// this column, else falling back to the plain Epsilon node.
func (p *Parser) predict(col, idx int, b term.Term) {
	rule, found := p.g.Rule(b.Key())
	if !found {
		panic(fmt.Sprintf("predict: nonterminal %s has no defining rule (should have been caught by grammar.Validate)", b))
	}
	for _, alt := range rule.RHS.List() {
		p.columns[col].add(&Item{LHS: b.Key(), RHS: alt, Dot: 0, Start: col, Sppf: p.forest.Null()})
	}
	if !p.nullable[b.Key()] {
		return
	}
	cur := p.columns[col].items[idx]
	v, ok := p.columns[col].nullableNode[b.Key()]
	if !ok {
		v = p.forest.Epsilon()
	}
	before := sppf.ItemView{LHS: cur.LHS, RHS: cur.RHS, Dot: cur.Dot, Start: uint64(cur.Start)}
	label := p.forest.MakeNode(before, uint64(col), cur.Sppf, v)
	advanced := cur.advance()
	advanced.Sppf = label
	p.columns[col].add(advanced)
}

// scanEpsilon advances an item past a literal Epsilon element in place,
// without consuming a column: Epsilon always matches the empty string. This
// departs from the Rust original's scan, which folds Epsilon into the
// generic terminal-scan path and so (since "".chars().next() is None, which
// its scan treats as an unconditional match) ends up advancing into the
// *next* column regardless of that column's actual character — consuming
// an input position an empty match should not consume. Building the
// advanced item in the *current* column instead keeps the zero-width
// semantics the nullable fixpoint already assumes elsewhere in this driver.
func (p *Parser) scanEpsilon(col int, it *Item) {
	before := sppf.ItemView{LHS: it.LHS, RHS: it.RHS, Dot: it.Dot, Start: uint64(it.Start)}
	label := p.forest.MakeNode(before, uint64(col), it.Sppf, p.forest.Epsilon())
	advanced := it.advance()
	advanced.Sppf = label
	p.columns[col].add(advanced)
}

// scan implements §4.5's Scan: if nextCol's character matches terminal t,
// advance the item into nextCol, building its SPPF node from the current
// item's node and the column's precomputed terminal node.
func (p *Parser) scan(nextCol int, it *Item, t term.Term) {
	content, _ := t.TerminalContent()
	if content == "" || []rune(content)[0] != p.columns[nextCol].Symbol {
		return
	}
	before := sppf.ItemView{LHS: it.LHS, RHS: it.RHS, Dot: it.Dot, Start: uint64(it.Start)}
	label := p.forest.MakeNode(before, uint64(nextCol), it.Sppf, p.columns[nextCol].terminal)
	advanced := it.advance()
	advanced.Sppf = label
	p.columns[nextCol].add(advanced)
}

// complete implements §4.5's Leo-optimized Complete. When the item being
// completed is a pure-nullable derivation (Null sppf, zero width), it first
// memoizes a Symbol node for reuse by later predicts in this column (§4.6).
func (p *Parser) complete(col, idx int) {
	state := p.columns[col].items[idx]
	if state.Sppf == p.forest.Null() && state.Start == col {
		if _, ok := p.columns[col].nullableNode[state.LHS]; !ok {
			p.columns[col].nullableNode[state.LHS] = p.forest.MakeNullableSymbol(state.LHS, uint64(col))
		}
	}
	if topmost, ok := p.deterministicReduction(state, col); ok {
		p.columns[col].add(topmost)
		return
	}
	p.earleyComplete(col, state)
}

// uniquePostdot finds state's unique post-dot parent: the lone item in
// column[state.Start] whose symbol at the dot is state.LHS, provided that
// symbol is also in final position (§4.5 step 2).
func (p *Parser) uniquePostdot(state *Item) (*Item, bool) {
	var parents []*Item
	for _, s := range p.columns[state.Start].items {
		if sym, ok := s.AtDot(); ok && sym.Key() == state.LHS {
			parents = append(parents, s)
			if len(parents) > 1 {
				break
			}
		}
	}
	if len(parents) != 1 {
		return nil, false
	}
	parent := parents[0]
	if parent.Dot == len(*parent.RHS)-1 {
		return parent, true
	}
	return nil, false
}

// deterministicReduction implements §4.5 step 3: recursively collapse a
// chain of unique post-dot parents into a single topmost completion,
// threading SPPF construction through each collapsed step.
func (p *Parser) deterministicReduction(state *Item, col int) (*Item, bool) {
	parent, ok := p.uniquePostdot(state)
	if !ok {
		return nil, false
	}
	if cached, ok := p.columns[state.Start].transitive[parent.LHS]; ok {
		return cached, true
	}
	before := sppf.ItemView{LHS: parent.LHS, RHS: parent.RHS, Dot: parent.Dot, Start: uint64(parent.Start)}
	label := p.forest.MakeNode(before, uint64(col), parent.Sppf, state.Sppf)
	candidate := parent.advance()
	candidate.Sppf = label
	topmost, found := p.deterministicReduction(candidate, col)
	if !found {
		topmost = candidate
	}
	p.columns[parent.Start].addTransitive(topmost)
	return topmost, true
}

// earleyComplete implements §4.5 step 5, the classical fallback: advance
// every item in column[state.Start] whose symbol at the dot is state.LHS.
func (p *Parser) earleyComplete(col int, state *Item) {
	for _, q := range p.columns[state.Start].items {
		sym, ok := q.AtDot()
		if !ok || sym.Key() != state.LHS {
			continue
		}
		before := sppf.ItemView{LHS: q.LHS, RHS: q.RHS, Dot: q.Dot, Start: uint64(q.Start)}
		label := p.forest.MakeNode(before, uint64(col), q.Sppf, state.Sppf)
		advanced := q.advance()
		advanced.Sppf = label
		p.columns[col].add(advanced)
	}
}

// acceptingItem returns the accepting item of the final column, if any: a
// completed item for the start symbol beginning at 0 (§4.5 "Acceptance").
func (p *Parser) acceptingItem() (*Item, bool) {
	last := p.columns[len(p.columns)-1]
	for _, it := range last.items {
		if it.Completed() && it.LHS == p.g.Start().Key() && it.Start == 0 {
			return it, true
		}
	}
	return nil, false
}

// Recognize decides whether input is a member of g's language. It runs a
// fresh parser (grammar clone + atomization + nullable fixpoint) per call,
// matching §3's "a parser instance is created per recognition call".
func Recognize(g *grammar.Grammar, input string) (bool, error) {
	accept, _, err := Parse(g, input)
	return accept, err
}

// Parse recognizes input against g and additionally returns the Shared
// Packed Parse Forest built while doing so. The forest is non-nil whenever
// err is nil, regardless of acceptance, so that callers can inspect partial
// derivations; accept reports whether the accepting item was found in the
// final column.
//
// §9's open question on the public shape of a `parse` operation is resolved
// here: recognition and forest construction are exposed side by side rather
// than inventing tree-disambiguation surface the spec does not define.
func Parse(g *grammar.Grammar, input string) (forest *sppf.Forest, accept bool, err error) {
	if err = g.Validate(); err != nil {
		return nil, false, err
	}
	p := NewParser(g)
	if err = p.init(input); err != nil {
		return nil, false, err
	}
	p.chartParse()
	if item, ok := p.acceptingItem(); ok {
		accept = true
		p.forest.SetRoot(mustNode(p.forest, item.Sppf))
	}
	return p.forest, accept, nil
}

func mustNode(f *sppf.Forest, label sppf.Label) *sppf.Node {
	node, _ := f.Node(label)
	return node
}

// DumpState renders every non-empty column's items, for debugging, in the
// teacher's lr/earley/debug.go style.
func (p *Parser) DumpState() string {
	var b bytes.Buffer
	b.WriteString("============================================\n")
	b.WriteString("state table\n")
	b.WriteString("============================================\n")
	for i, col := range p.columns {
		if col.len() == 0 {
			continue
		}
		fmt.Fprintf(&b, "[column: %d | symbol: %q]\n", i, col.Symbol)
		for _, it := range col.items {
			fmt.Fprintf(&b, "    %s\n", it.string(p.g))
		}
	}
	b.WriteString("============================================\n")
	return b.String()
}
