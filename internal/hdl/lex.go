// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hdl

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Type is a token type.
//
type Type int

// Tokens
//
const (
	EOF Type = iota
	Raw
	Ident
	BracketOpen
	BracketClose
	Comma
	Int
	Range
	Equal
)

var typeNames = [...]string{
	EOF:          "end of input",
	Raw:          "character",
	Ident:        "identifier",
	BracketOpen:  "'['",
	BracketClose: "']'",
	Comma:        "','",
	Int:          "integer",
	Range:        "'..'",
	Equal:        "'='",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "token(" + strconv.Itoa(int(t)) + ")"
	}
	return typeNames[t]
}

// Item is a lexed token.
//
type Item struct {
	Type  Type
	Pos   int
	Value interface{}
}

func (i Item) String() string {
	switch i.Type {
	case Ident:
		return "identifier " + strconv.Quote(i.Value.(string))
	case Int:
		return "integer " + strconv.Itoa(i.Value.(int))
	case Raw:
		return "character " + strconv.QuoteRune(i.Value.(rune))
	}
	return i.Type.String()
}

// Lexer splits i/o specs and connection descriptions into tokens.
//
type Lexer struct {
	in  string
	pos int
	eof bool
}

// NewLexer returns a new lexer for i/o specs and connection descriptions.
//
func NewLexer(input string) *Lexer {
	return &Lexer{in: input}
}

func (l *Lexer) next() (rune, int) {
	if l.pos >= len(l.in) {
		return -1, 0
	}
	return utf8.DecodeRuneInString(l.in[l.pos:])
}

// Lex returns the next token. Once the end of input or an invalid character
// is reached, it only returns EOF.
//
func (l *Lexer) Lex() Item {
	if l.eof {
		return Item{Type: EOF, Pos: l.pos}
	}
	r, w := l.next()
	for r >= 0 && unicode.IsSpace(r) {
		l.pos += w
		r, w = l.next()
	}
	start := l.pos
	switch {
	case r < 0:
		l.eof = true
		return Item{Type: EOF, Pos: start}
	case unicode.IsLetter(r) || r == '_':
		for r >= 0 && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			l.pos += w
			r, w = l.next()
		}
		return Item{Type: Ident, Pos: start, Value: l.in[start:l.pos]}
	case '0' <= r && r <= '9':
		n := 0
		for '0' <= r && r <= '9' {
			n = n*10 + int(r-'0')
			l.pos += w
			r, w = l.next()
		}
		return Item{Type: Int, Pos: start, Value: n}
	case r == '[':
		l.pos += w
		return Item{Type: BracketOpen, Pos: start}
	case r == ']':
		l.pos += w
		return Item{Type: BracketClose, Pos: start}
	case r == ',':
		l.pos += w
		return Item{Type: Comma, Pos: start}
	case r == '=':
		l.pos += w
		return Item{Type: Equal, Pos: start}
	case r == '.' && l.pos+1 < len(l.in) && l.in[l.pos+1] == '.':
		l.pos += 2
		return Item{Type: Range, Pos: start}
	}
	l.pos += w
	l.eof = true
	return Item{Type: Raw, Pos: start, Value: r}
}
