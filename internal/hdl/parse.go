// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hdl parses pin declarations and connection descriptions.
//
package hdl

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Kind is the shape of a pin Term.
//
type Kind int

// Term kinds.
//
const (
	Plain Kind = iota // p
	Index             // p[i]
	Span              // p[lo..hi]
)

// A Term is a pin reference as written in a declaration or connection
// description. Pos is the 0-based byte offset of its name in the input.
// For Index terms, Lo == Hi.
//
type Term struct {
	Kind   Kind
	Name   string
	Pos    int
	Lo, Hi int
}

// Pins returns the pin names t refers to. Ranges may be descending.
//
func (t Term) Pins() []string {
	switch t.Kind {
	case Index:
		return []string{BusPinName(t.Name, t.Lo)}
	case Span:
		step := 1
		if t.Hi < t.Lo {
			step = -1
		}
		r := make([]string, 0, (t.Hi-t.Lo)*step+1)
		for i := t.Lo; ; i += step {
			r = append(r, BusPinName(t.Name, i))
			if i == t.Hi {
				return r
			}
		}
	}
	return []string{t.Name}
}

type parser struct {
	in  string
	l   *Lexer
	tok Item
}

func newParser(in string) *parser {
	p := &parser{in: in, l: NewLexer(in)}
	p.advance()
	return p
}

func (p *parser) advance() { p.tok = p.l.Lex() }

func (p *parser) errorf(pos int, format string, args ...interface{}) error {
	return errors.Errorf("in %q at pos %d: %s", p.in, pos+1, fmt.Sprintf(format, args...))
}

// list calls elem once per comma separated element. Empty input is an empty
// list.
//
func (p *parser) list(elem func() error) error {
	if p.tok.Type == EOF {
		return nil
	}
	for {
		if err := elem(); err != nil {
			return err
		}
		switch p.tok.Type {
		case EOF:
			return nil
		case Comma:
			p.advance()
		default:
			return p.errorf(p.tok.Pos, "unexpected %s", p.tok)
		}
	}
}

func (p *parser) term() (Term, error) {
	if p.tok.Type != Ident {
		return Term{}, p.errorf(p.tok.Pos, "expected pin name")
	}
	t := Term{Name: p.tok.Value.(string), Pos: p.tok.Pos}
	p.advance()
	if p.tok.Type != BracketOpen {
		return t, nil
	}
	p.advance()
	lo, err := p.integer("'['")
	if err != nil {
		return t, err
	}
	t.Kind, t.Lo, t.Hi = Index, lo, lo
	if p.tok.Type == Range {
		p.advance()
		if t.Hi, err = p.integer("'..'"); err != nil {
			return t, err
		}
		t.Kind = Span
	}
	if p.tok.Type != BracketClose {
		return t, p.errorf(p.tok.Pos, "closing ']' expected after index or range")
	}
	p.advance()
	return t, nil
}

func (p *parser) integer(after string) (int, error) {
	if p.tok.Type != Int {
		return 0, p.errorf(p.tok.Pos, "integer value expected after %s", after)
	}
	v := p.tok.Value.(int)
	p.advance()
	return v, nil
}

// BusPinName returns the name of the i-th pin of the given bus.
//
func BusPinName(bus string, i int) string {
	return bus + "[" + strconv.Itoa(i) + "]"
}

// ParseIO parses a pin declaration string and returns individual pin
// names, also expanding bus declarations to individual pin names:
//
//	ParseIO("in[2], sel") // returns []string{"in[0]", "in[1]", "sel"}
//
// Ranges are not allowed in declarations.
//
func ParseIO(spec string) ([]string, error) {
	var names []string
	p := newParser(spec)
	err := p.list(func() error {
		t, err := p.term()
		if err != nil {
			return err
		}
		switch t.Kind {
		case Span:
			return p.errorf(t.Pos, "unexpected range in pin declaration")
		case Index:
			if t.Lo <= 0 {
				return p.errorf(t.Pos, "invalid bus size")
			}
			for i := 0; i < t.Lo; i++ {
				names = append(names, BusPinName(t.Name, i))
			}
		default:
			names = append(names, t.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// A Connection connects a part pin to a net in the enclosing design.
//
type Connection struct {
	PP string // part pin name
	CP string // net or design pin name
}

// ParseConnections parses a connection description like
//
//	"a=x, b=bus[1], out[0..1]=y[2..3]"
//
// and returns the expanded list of pin to net connections. A range on one
// side must match a range of the same size on the other side. A range of part
// pins may also be assigned a single net, which is then connected to every pin
// of the range. The reverse, a single part pin assigned a range of nets, would
// short the nets together and is an error.
//
func ParseConnections(spec string) ([]Connection, error) {
	var conns []Connection
	p := newParser(spec)
	err := p.list(func() error {
		lhs, err := p.term()
		if err != nil {
			return err
		}
		if p.tok.Type != Equal {
			return p.errorf(lhs.Pos, "expected pin assignment")
		}
		p.advance()
		rhs, err := p.term()
		if err != nil {
			return err
		}
		l, r := lhs.Pins(), rhs.Pins()
		switch {
		case len(l) == len(r):
			for i := range l {
				conns = append(conns, Connection{l[i], r[i]})
			}
		case len(r) == 1:
			for _, pp := range l {
				conns = append(conns, Connection{pp, r[0]})
			}
		case len(l) == 1:
			return p.errorf(rhs.Pos, "cannot assign a range of nets to a single pin")
		default:
			return p.errorf(lhs.Pos, "pin count mismatch in pin assignment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conns, nil
}
