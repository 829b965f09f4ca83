/*
Package generate implements random string generation over a grammar.Grammar
under a selectable sampling strategy and a seed (§4.2).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package generate

import (
	"math/rand"
	"time"

	"github.com/npillmayer/schuko/tracing"

	"github.com/corrigan-dev/bnfgrammar/cfgerror"
	"github.com/corrigan-dev/bnfgrammar/grammar"
	"github.com/corrigan-dev/bnfgrammar/term"
)

// tracer traces with key 'bnfgrammar.generate'.
func tracer() tracing.Trace {
	return tracing.Select("bnfgrammar.generate")
}

// Strategy selects how a Generator picks an alternative when expanding a
// nonterminal.
type Strategy int

const (
	// UniformRHSSampling picks an alternative uniformly at random among all
	// alternatives of the current nonterminal.
	UniformRHSSampling Strategy = iota
	// RecursionAvoidance picks uniformly at random among alternatives that
	// do not contain the current nonterminal, failing with
	// InfinitelyRecursiveProduction if none exist.
	RecursionAvoidance
	// GreedyTerminals picks uniformly at random among all-terminal
	// alternatives, falling back to UniformRHSSampling if none exist.
	GreedyTerminals
)

func (s Strategy) String() string {
	switch s {
	case UniformRHSSampling:
		return "UniformRHSSampling"
	case RecursionAvoidance:
		return "RecursionAvoidance"
	case GreedyTerminals:
		return "GreedyTerminals"
	default:
		return "UnknownStrategy"
	}
}

// Generator is a stack-based top-down expander: it rewrites nonterminals by
// one alternative at a time according to a chosen Strategy, flushing
// terminals to an output buffer.
type Generator struct {
	g      *grammar.Grammar
	stack  []term.Term
	output []byte
	rng    *rand.Rand
}

// Generate produces a random member of L(g) using UniformRHSSampling with an
// entropy-seeded source.
func Generate(g *grammar.Grammar) (string, error) {
	return GenerateParameterized(g, UniformRHSSampling, uint64(time.Now().UnixNano()))
}

// GenerateParameterized produces a member of L(g) using the given strategy,
// deterministic for a fixed (strategy, seed) pair.
func GenerateParameterized(g *grammar.Grammar, strategy Strategy, seed uint64) (string, error) {
	gen := &Generator{
		g:   g,
		rng: rand.New(rand.NewSource(int64(seed))),
	}
	return gen.run(strategy)
}

func (gen *Generator) run(strategy Strategy) (string, error) {
	gen.stack = append(gen.stack, gen.g.Start())
	for len(gen.stack) > 0 {
		top := gen.stack[len(gen.stack)-1]
		gen.stack = gen.stack[:len(gen.stack)-1]
		if top.IsTerminal() {
			gen.output = append(gen.output, top.Content...)
			continue
		}
		if err := gen.step(strategy, top); err != nil {
			return "", err
		}
	}
	return string(gen.output), nil
}

// step expands one nonterminal according to strategy, pushing the chosen
// alternative's terms in reverse so that the leftmost term ends up on top of
// the stack and is therefore processed (and emitted) first.
func (gen *Generator) step(strategy Strategy, nonterminal term.Term) error {
	rule, found := gen.g.Rule(nonterminal.Key())
	if !found {
		return cfgerror.New(cfgerror.UnknownNonterminal,
			"nonterminal %s has no defining rule", nonterminal.String())
	}
	alts := rule.RHS.List()
	var chosen *grammar.Alternative
	switch strategy {
	case RecursionAvoidance:
		candidates := filterAlternatives(alts, func(alt *grammar.Alternative) bool {
			return !containsKey(*alt, nonterminal.Key())
		})
		if len(candidates) == 0 {
			return cfgerror.New(cfgerror.InfinitelyRecursiveProduction,
				"cannot generate from infinitely recursive production rule for %s", nonterminal.String())
		}
		chosen = candidates[gen.rng.Intn(len(candidates))]
	case GreedyTerminals:
		candidates := filterAlternatives(alts, func(alt *grammar.Alternative) bool {
			return allTerminals(*alt)
		})
		if len(candidates) == 0 {
			candidates = alts
		}
		chosen = candidates[gen.rng.Intn(len(candidates))]
	default: // UniformRHSSampling
		chosen = alts[gen.rng.Intn(len(alts))]
	}
	terms := *chosen
	tracer().Debugf("expanding %s via %v", nonterminal, terms)
	for i := len(terms) - 1; i >= 0; i-- {
		gen.stack = append(gen.stack, terms[i])
	}
	return nil
}

func filterAlternatives(alts []*grammar.Alternative, pred func(*grammar.Alternative) bool) []*grammar.Alternative {
	var out []*grammar.Alternative
	for _, alt := range alts {
		if pred(alt) {
			out = append(out, alt)
		}
	}
	return out
}

func containsKey(alt grammar.Alternative, key term.Key) bool {
	for _, t := range alt {
		if t.Key() == key {
			return true
		}
	}
	return false
}

func allTerminals(alt grammar.Alternative) bool {
	for _, t := range alt {
		if !t.IsTerminal() {
			return false
		}
	}
	return true
}
