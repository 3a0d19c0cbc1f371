package fluxion

// parseSet parses a finite collection or a set-builder definition. The cursor
// is on the opening brace.
func (p *parser) parseSet() (Token, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	ln := p.cur.line()
	p.cur.consume()
	m, err := p.parseExpression(",|}")
	if err != nil {
		return nil, err
	}
	if p.cur.peek() == '|' {
		v := loneIdentifier(m)
		if v == nil {
			return nil, p.cur.errorf(Undefined, "set-builder variable must be an identifier")
		}
		p.cur.consume()
		c, err := p.parseExpression("}")
		if err != nil {
			return nil, err
		}
		if p.cur.peek() != '}' {
			return nil, p.cur.errorf(Undefined, "Expected }")
		}
		p.cur.consume()
		return NewBuilder(ln, v, c), nil
	}
	f := NewFinite(ln)
	for {
		r := p.cur.peek()
		if r != ',' && r != '}' {
			return nil, p.cur.errorf(Undefined, "Expected }")
		}
		if m.Len() == 0 {
			if r == '}' && f.Len() == 0 {
				// {}
				p.cur.consume()
				break
			}
			return nil, p.cur.errorf(Undefined, "Expected member")
		}
		f.Append(m)
		p.cur.consume()
		if r == '}' {
			break
		}
		m, err = p.parseExpression(",}")
		if err != nil {
			return nil, err
		}
	}
	f.Finalize()
	return f, nil
}

// loneIdentifier returns the identifier that is the only token of ex, or nil.
func loneIdentifier(ex *Expression) *Identifier {
	if ex.Len() != 1 {
		return nil
	}
	id, _ := ex.Tokens()[0].(*Identifier)
	return id
}

// parseMatrix parses a bracketed matrix. Commas separate columns and
// semicolons separate rows. The cursor is on the opening bracket.
func (p *parser) parseMatrix() (*Matrix, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	m := NewMatrix(p.cur.line())
	p.cur.consume()
	row, col, width := 0, 0, -1
	for {
		el, err := p.parseExpression(",;]")
		if err != nil {
			return nil, err
		}
		r := p.cur.peek()
		if r != ',' && r != ';' && r != ']' {
			return nil, p.cur.errorf(Undefined, "Expected ]")
		}
		if el.Len() == 0 {
			if r == ']' && row == 0 && col == 0 {
				// []
				p.cur.consume()
				return m, nil
			}
			return nil, p.cur.errorf(Undefined, "Expected member")
		}
		m.Set(row, col, el)
		col++
		if r == ',' {
			p.cur.consume()
			continue
		}
		switch {
		case width < 0:
			width = col
		case col != width:
			return nil, p.cur.errorf(Undefined, "row %d has %d columns, want %d", row+1, col, width)
		}
		p.cur.consume()
		if r == ']' {
			return m, nil
		}
		row++
		col = 0
	}
}

// sequence converts a statement of the form {seeds} x_n -> rule into a
// Sequence. Any other statement is returned unchanged.
func (p *parser) sequence(ex *Expression) (Token, error) {
	t := ex.Tokens()
	if len(t) < 5 {
		return ex, nil
	}
	pre, _ := t[0].(*Finite)
	elem, _ := t[1].(*Identifier)
	idx, _ := t[3].(*Identifier)
	if pre == nil || elem == nil || idx == nil || !isOp(t[2], GET) || !isOp(t[4], LIMIT) {
		return ex, nil
	}
	if len(t) == 5 {
		return nil, p.cur.errorf(Undefined, "sequence rule is empty")
	}
	rule := NewExpression(t[5].Line())
	for _, c := range t[5:] {
		rule.Append(c)
	}
	rule.Finalize()
	return NewSequence(pre.Line(), pre, elem, idx, rule), nil
}

func isOp(t Token, k OpKind) bool {
	op, ok := t.(*Operator)
	return ok && op.Op == k
}
