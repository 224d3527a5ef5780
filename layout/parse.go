// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package layout

import "strconv"

// Parse reads the compact textual form of a layout. It returns nil for an
// empty or malformed name. A record is read up to the first malformed
// member, so "{a int,b" yields "{a int}".
func Parse(name string) Type {
	if name == "" {
		return nil
	}
	p := parser{s: name}
	return p.parse()
}

type parser struct {
	s   string
	pos int
}

func (p *parser) peek() byte {
	if p.pos < len(p.s) {
		return p.s[p.pos]
	}
	return 0
}

func isIdentifier(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (p *parser) parse() Type {
	switch p.peek() {
	case '{':
		return p.parseRecord()
	case '[':
		return p.parseArray()
	}

	// allow e.g. IK2D::Joint or float* as type name
	start := p.pos
	for c := p.peek(); isIdentifier(c) || c == ':' || c == '*'; c = p.peek() {
		p.pos++
	}
	if p.pos == start {
		return nil
	}
	return &Named{Name: p.s[start:p.pos]}
}

func (p *parser) parseRecord() Type {
	r := NewRecord()
	for p.peek() != 0 {
		// skip '{' or ','
		p.pos++
		if p.peek() == '}' {
			p.pos++
			break
		}

		start := p.pos
		for isIdentifier(p.peek()) {
			p.pos++
		}
		name := p.s[start:p.pos]
		if name == "" || p.peek() != ' ' {
			break
		}
		p.pos++

		t := p.parse()
		if t == nil {
			break
		}
		r.Fields = append(r.Fields, Field{Name: name, Type: t})
	}
	return r
}

func (p *parser) parseArray() Type {
	p.pos++
	start := p.pos
	for c := p.peek(); c >= '0' && c <= '9'; c = p.peek() {
		p.pos++
	}
	if p.peek() != ']' {
		return nil
	}
	n := 0
	if digits := p.s[start:p.pos]; digits != "" {
		var err error
		if n, err = strconv.Atoi(digits); err != nil {
			return nil
		}
	}
	p.pos++

	elem := p.parse()
	if elem == nil {
		return nil
	}
	return &Array{Elem: elem, Len: n}
}
