// Package common holds the lexer and the grammar rules shared by the query parser and type
// reference parsing.
package common

import (
	"fmt"
	"strings"
	"text/scanner"

	"github.com/graph-gophers/graphql-fn/ast"
	"github.com/graph-gophers/graphql-fn/errors"
)

// syntaxError unwinds the parser to Try.
type syntaxError struct {
	msg string
}

// Lexer tokenizes GraphQL source. Commas and comments are skipped like whitespace.
//
// Grammar rules report problems with Errorf, which panics; Try turns that into a SyntaxError
// located at the current token.
type Lexer struct {
	sc  scanner.Scanner
	tok rune
}

func NewLexer(src string) *Lexer {
	l := &Lexer{}
	l.sc.Init(strings.NewReader(src))
	l.sc.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings
	l.sc.Error = func(_ *scanner.Scanner, msg string) { l.Errorf("%s", msg) }
	return l
}

// Try runs parse and recovers a syntax error raised by it.
func (l *Lexer) Try(parse func()) (err *errors.QueryError) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		se, ok := r.(syntaxError)
		if !ok {
			panic(r)
		}
		err = errors.Kindf(errors.SyntaxError, "%s", se.msg)
		err.Locations = []errors.Location{l.Location()}
	}()
	parse()
	return nil
}

// Errorf aborts parsing.
func (l *Lexer) Errorf(format string, a ...interface{}) {
	panic(syntaxError{msg: fmt.Sprintf(format, a...)})
}

// Next advances to the next significant token.
func (l *Lexer) Next() {
	for {
		l.tok = l.sc.Scan()
		switch l.tok {
		case ',':
		case '#':
			l.skipLine()
		default:
			return
		}
	}
}

func (l *Lexer) skipLine() {
	for {
		switch l.sc.Next() {
		case '\n', '\r', scanner.EOF:
			return
		}
	}
}

// Peek returns the current token without consuming it.
func (l *Lexer) Peek() rune {
	return l.tok
}

// Location is the start of the current token.
func (l *Lexer) Location() errors.Location {
	return errors.Location{Line: l.sc.Line, Column: l.sc.Column}
}

// Expect consumes the current token, which must be tok.
func (l *Lexer) Expect(tok rune) {
	if l.tok != tok {
		l.Errorf("unexpected %s, expecting %s", l.current(), scanner.TokenString(tok))
	}
	l.Next()
}

// Skip consumes the current token if it is tok.
func (l *Lexer) Skip(tok rune) bool {
	if l.tok != tok {
		return false
	}
	l.Next()
	return true
}

// Name consumes a name token.
func (l *Lexer) Name() ast.Ident {
	id := ast.Ident{Name: l.sc.TokenText(), Loc: l.Location()}
	l.Expect(scanner.Ident)
	return id
}

// Keyword consumes the name kw.
func (l *Lexer) Keyword(kw string) {
	if l.tok != scanner.Ident || l.sc.TokenText() != kw {
		l.Errorf("unexpected %q, expecting %q", l.sc.TokenText(), kw)
	}
	l.Next()
}

// Unexpected aborts on the current token.
func (l *Lexer) Unexpected(expecting string) {
	l.Errorf("unexpected %s, expecting %s", l.current(), expecting)
}

func (l *Lexer) current() string {
	if l.tok == scanner.EOF {
		return "<EOF>"
	}
	return fmt.Sprintf("%q", l.sc.TokenText())
}

func (l *Lexer) literal() *ast.PrimitiveValue {
	lit := &ast.PrimitiveValue{Type: l.tok, Text: l.sc.TokenText(), Loc: l.Location()}
	l.Next()
	return lit
}
