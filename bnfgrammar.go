/*
Package bnfgrammar is a context-free grammar toolkit: build grammars, render
them, generate random members of their language, and recognize or parse
input against them with an Earley chart parser extended with Leo's
deterministic-reduction optimization and Shared Packed Parse Forest
construction. Package structure is as follows:

■ term: interned grammar symbols (Terminal, Nonterminal, Epsilon).

■ grammar: Rules, Alternatives and the Grammar builder/validator.

■ generate: random string generation under a selectable sampling strategy.

■ earley: the chart parser and its Shared Packed Parse Forest output.

■ sppf: the forest's node/label/family model.

■ bnflang: the external textual grammar-literal notation's lexer/parser.

■ config: TOML-based toolkit configuration.

■ cfgerror: the shared error taxonomy.

This base package re-exports the most common operations so that typical
callers need only import bnfgrammar itself.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package bnfgrammar

import (
	"github.com/corrigan-dev/bnfgrammar/bnflang"
	"github.com/corrigan-dev/bnfgrammar/earley"
	"github.com/corrigan-dev/bnfgrammar/generate"
	"github.com/corrigan-dev/bnfgrammar/grammar"
	"github.com/corrigan-dev/bnfgrammar/sppf"
)

// Grammar is a context-free grammar: an ordered sequence of rules over a
// distinguished start symbol.
type Grammar = grammar.Grammar

// Strategy selects how Generate picks an alternative when expanding a
// nonterminal; see the generate package for the three defined strategies.
type Strategy = generate.Strategy

const (
	UniformRHSSampling = generate.UniformRHSSampling
	RecursionAvoidance = generate.RecursionAvoidance
	GreedyTerminals    = generate.GreedyTerminals
)

// NewBuilder creates an empty grammar builder.
func NewBuilder() *grammar.Builder {
	return grammar.NewBuilder()
}

// ParseGrammar tokenizes and parses the external textual grammar-literal
// notation (§6) into a Grammar.
func ParseGrammar(source string) (*Grammar, error) {
	return bnflang.Parse(source)
}

// Generate produces a random member of g's language using UniformRHSSampling
// with an entropy-seeded source.
func Generate(g *Grammar) (string, error) {
	return generate.Generate(g)
}

// GenerateParameterized produces a member of g's language using the given
// strategy, deterministic for a fixed (strategy, seed) pair.
func GenerateParameterized(g *Grammar, strategy Strategy, seed uint64) (string, error) {
	return generate.GenerateParameterized(g, strategy, seed)
}

// Recognize decides whether input is a member of g's language.
func Recognize(g *Grammar, input string) (bool, error) {
	return earley.Recognize(g, input)
}

// Parse recognizes input against g and returns the Shared Packed Parse
// Forest built while doing so, alongside whether the input was accepted.
//
// Reserved for callers that need the forest directly; most callers want
// Recognize.
func Parse(g *Grammar, input string) (forest *sppf.Forest, accept bool, err error) {
	return earley.Parse(g, input)
}
