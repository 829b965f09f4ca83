package bnflang

import (
	"github.com/corrigan-dev/bnfgrammar/cfgerror"
	"github.com/corrigan-dev/bnfgrammar/grammar"
	"github.com/corrigan-dev/bnfgrammar/term"
)

// Parse tokenizes and parses source into a grammar.Grammar, grounded
// directly on original_source/macros/src/lib.rs's token-consumption loop:
// each iteration consumes one `lhs = alt1 | alt2 | ...` rule, alternatives
// are comma-free sequences of identifiers (Nonterminal) and quoted string
// literals (Terminal) separated by '|', and a rule ends either at the next
// rule's "ident =" lookahead or at end of input.
//
// Returns cfgerror.InvalidGrammarSyntax for any malformed input, matching
// the Rust macro's own diagnostics.
func Parse(source string) (*grammar.Grammar, error) {
	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	b := grammar.NewBuilder()
	for !p.atEOF() {
		rule, err := p.rule()
		if err != nil {
			return nil, err
		}
		b.Rule(*rule)
	}
	return b.Build()
}

// parser walks the flat token slice produced by tokenize.
type parser struct {
	tokens []token
	pos    int
}

func (p *parser) atEOF() bool {
	return p.tokens[p.pos].Kind == tokEOF
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.Kind != tokEOF {
		p.pos++
	}
	return t
}

// rule consumes one `lhs = alt1 | alt2 | ...` production.
func (p *parser) rule() (*grammar.Rule, error) {
	lhsTok := p.next()
	if lhsTok.Kind != tokIdent {
		return nil, cfgerror.New(cfgerror.InvalidGrammarSyntax,
			"expected a nonterminal name, got %s", lhsTok.Kind)
	}
	eq := p.next()
	if eq.Kind != tokEquals {
		return nil, cfgerror.New(cfgerror.InvalidGrammarSyntax,
			"expected '=' after %q, got %s", lhsTok.Value, eq.Kind)
	}

	var alternatives [][]term.Term
	var current []term.Term
	expectTerm := true
	for {
		switch p.peek().Kind {
		case tokEOF:
			if expectTerm {
				return nil, cfgerror.New(cfgerror.InvalidGrammarSyntax,
					"expected a term but input ended while parsing rule %q", lhsTok.Value)
			}
			alternatives = append(alternatives, current)
			return &grammar.Rule{
				LHS: term.NewNonterminal(lhsTok.Value),
				RHS: grammar.NewAlternatives(alternatives...),
			}, nil
		case tokIdent:
			// Lookahead "ident =" closes the current rule instead of
			// starting a new alternative term.
			if p.startsNextRule() {
				if expectTerm {
					return nil, cfgerror.New(cfgerror.InvalidGrammarSyntax,
						"rule right-hand-side requires at least one term")
				}
				alternatives = append(alternatives, current)
				return &grammar.Rule{
					LHS: term.NewNonterminal(lhsTok.Value),
					RHS: grammar.NewAlternatives(alternatives...),
				}, nil
			}
			ident := p.next()
			current = append(current, term.NewNonterminal(ident.Value))
			expectTerm = false
		case tokString:
			str := p.next()
			current = append(current, term.NewTerminal(str.Value))
			expectTerm = false
		case tokPipe:
			if expectTerm {
				return nil, cfgerror.New(cfgerror.InvalidGrammarSyntax,
					"expected a term after the '|' symbol in the right-hand-side of the rule")
			}
			p.next()
			alternatives = append(alternatives, current)
			current = nil
			expectTerm = true
		case tokEquals:
			return nil, cfgerror.New(cfgerror.InvalidGrammarSyntax,
				"rule right-hand-side requires at least one term")
		default:
			return nil, cfgerror.New(cfgerror.InvalidGrammarSyntax,
				"unexpected token encountered: %s", p.peek().Kind)
		}
	}
}

// startsNextRule reports whether the token at pos begins a new rule: an
// identifier immediately followed by '='.
func (p *parser) startsNextRule() bool {
	if p.peek().Kind != tokIdent {
		return false
	}
	if p.pos+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.pos+1].Kind == tokEquals
}
