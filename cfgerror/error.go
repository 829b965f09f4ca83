/*
Package cfgerror defines the error taxonomy shared by the bnfgrammar toolkit.

Every operation that can fail returns a *cfgerror.Error carrying one of a
small, closed set of Kinds, except those of package config, which return the
plain errors of file reading, TOML decoding and fmt.Errorf. There is no wrapping hierarchy and no retry
policy: errors are returned at the boundary of the operation that triggered
them.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package cfgerror

import "fmt"

// Kind classifies an Error. The set is closed; callers switch on it directly
// or match by kind with errors.Is (see Error.Is).
type Kind int

const (
	// InvalidGrammarSyntax is raised only by the external grammar-literal
	// front-end (package bnflang) when it cannot tokenize or parse its input.
	InvalidGrammarSyntax Kind = iota + 1
	// UnknownNonterminal marks a Nonterminal with no defining rule.
	UnknownNonterminal
	// NotATerminal marks a Terminal-only operation attempted on a Nonterminal.
	NotATerminal
	// InfinitelyRecursiveProduction marks a RecursionAvoidance strategy that
	// found no recursion-free alternative for the current nonterminal.
	InfinitelyRecursiveProduction
	// EmptyGrammar marks an operation attempted on a grammar with no rules.
	EmptyGrammar
)

func (k Kind) String() string {
	switch k {
	case InvalidGrammarSyntax:
		return "InvalidGrammarSyntax"
	case UnknownNonterminal:
		return "UnknownNonterminal"
	case NotATerminal:
		return "NotATerminal"
	case InfinitelyRecursiveProduction:
		return "InfinitelyRecursiveProduction"
	case EmptyGrammar:
		return "EmptyGrammar"
	default:
		return "UnknownErrorKind"
	}
}

// Error is the unified error type returned by every public operation in this
// module that can fail, outside package config.
type Error struct {
	kind Kind
	msg  string
}

// New creates an Error of the given kind with a message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind {
	if e == nil {
		return 0
	}
	return e.kind
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Is reports whether target is an *Error of the same Kind, supporting
// errors.Is(err, cfgerror.New(cfgerror.EmptyGrammar, "")).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == other.kind
}
