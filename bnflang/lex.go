/*
Package bnflang implements the external textual notation of §6: a small
grammar-literal language

	name = A B | "literal" C
	name2 = "x" | ""

which this package tokenizes and parses into a grammar.Grammar, surfacing
cfgerror.InvalidGrammarSyntax on malformed input.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package bnflang

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/corrigan-dev/bnfgrammar/cfgerror"
)

// tracer traces with key 'bnfgrammar.bnflang'.
func tracer() tracing.Trace {
	return tracing.Select("bnfgrammar.bnflang")
}

// tokKind classifies a scanned token.
type tokKind int

const (
	tokIdent tokKind = iota
	tokString
	tokEquals
	tokPipe
	tokEOF
)

func (k tokKind) String() string {
	switch k {
	case tokIdent:
		return "identifier"
	case tokString:
		return "string literal"
	case tokEquals:
		return "'='"
	case tokPipe:
		return "'|'"
	default:
		return "end of input"
	}
}

// token is one scanned lexeme, with its unquoted/unescaped text in Value.
type token struct {
	Kind  tokKind
	Value string
}

func makeToken(kind tokKind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return token{Kind: kind, Value: string(m.Bytes)}, nil
	}
}

// angleIdentToken strips the surrounding '<' '>' from the rendered
// nonterminal notation (Grammar.String()'s "<name>" form) so that the
// textual round-trip property of §8 can feed a rendered grammar straight
// back through this same front-end as a plain identifier token.
func angleIdentToken(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	raw := string(m.Bytes)
	return token{Kind: tokIdent, Value: raw[1 : len(raw)-1]}, nil
}

// stringToken strips the surrounding quotes the way the Rust original's
// literal-token handling does (pop the trailing quote, remove the leading
// one), leaving raw escape sequences to lexicalUnescape.
func stringToken(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	raw := string(m.Bytes)
	inner := raw[1 : len(raw)-1]
	return token{Kind: tokString, Value: lexicalUnescape(inner)}, nil
}

// lexicalUnescape reverses term.EscapeContent's escaping, so a literal like
// "\n" in grammar source becomes an actual newline in the terminal's content.
func lexicalUnescape(s string) string {
	var out []rune
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) {
			i++
			switch runes[i] {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			default:
				out = append(out, runes[i])
			}
			continue
		}
		out = append(out, runes[i])
	}
	return string(out)
}

// newLexer builds the DFA-based lexmachine lexer for the grammar-literal
// notation, in the teacher's lr/scanner/lexmach adapter idiom: one Add call
// per token pattern, actions wrapping matches into the local token type.
func newLexer() (*lexmachine.Lexer, error) {
	lexer := lexmachine.NewLexer()
	lexer.Add([]byte(`\"([^"\\]|\\.)*\"`), stringToken)
	lexer.Add([]byte(`::=`), makeToken(tokEquals))
	lexer.Add([]byte(`=`), makeToken(tokEquals))
	lexer.Add([]byte(`\|`), makeToken(tokPipe))
	lexer.Add([]byte(`<([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*>`), angleIdentToken)
	lexer.Add([]byte(`([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`), makeToken(tokIdent))
	lexer.Add([]byte(`( |\t|\n|\r)+`), skip)
	lexer.Add([]byte(`;[^\n]*\n?`), skip)
	if err := lexer.Compile(); err != nil {
		tracer().Errorf("error compiling bnflang DFA: %v", err)
		return nil, err
	}
	return lexer, nil
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// tokenize scans source into a flat token slice terminated by a tokEOF
// sentinel, surfacing any lexer error as cfgerror.InvalidGrammarSyntax.
func tokenize(source string) ([]token, error) {
	lexer, err := newLexer()
	if err != nil {
		return nil, cfgerror.New(cfgerror.InvalidGrammarSyntax, "could not build lexer: %v", err)
	}
	scanner, err := lexer.Scanner([]byte(source))
	if err != nil {
		return nil, cfgerror.New(cfgerror.InvalidGrammarSyntax, "could not start scanner: %v", err)
	}
	var tokens []token
	for {
		tok, err, eof := scanner.Next()
		if err != nil {
			return nil, cfgerror.New(cfgerror.InvalidGrammarSyntax, "unexpected token encountered: %v", err)
		}
		if eof {
			break
		}
		tokens = append(tokens, tok.(token))
	}
	tokens = append(tokens, token{Kind: tokEOF})
	return tokens, nil
}
