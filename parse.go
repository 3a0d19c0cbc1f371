package fluxion

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Program = { Statement '\n' }
// Statement = { Term } | Finite name '_' name '->' Term { Term }
// Term = number | name | operator | Call | '(' { Term } ')' | Finite | Builder | Matrix
// Call = name '(' [ Arg { ',' Arg } [ ',' ] ] ')'
// Arg = Term { Term }
// Finite = '{' [ Arg { ',' Arg } ] '}'
// Builder = '{' name '|' { Term } '}'
// Matrix = '[' [ Row { ';' Row } ] ']'
// Row = Arg { ',' Arg }

// closers are runes that end constructs. Anywhere else they are errors.
const closers = ")]},"

type parser struct {
	cur *cursor
	ctx parsectx
	// depth is the number of constructs being parsed.
	depth int
}

// Parse parses a Fluxion program. The result has one token for each line of
// the input that is not blank or a comment.
//
// If the input has errors, the result is nil and the error is an ErrorList
// holding each error found. Parse stops at the end of a statement with an
// error and resumes on the next line.
func Parse(src string, opts ...ParseOption) ([]Token, error) {
	ctx := defaultctx()
	for _, opt := range opts {
		ctx = opt.parseOption(ctx)
	}
	if ctx.log == nil {
		ctx.log = discard
	}
	cur, serr := newCursor(src)
	if serr != nil {
		return nil, ErrorList{serr}
	}
	p := parser{cur: cur, ctx: ctx}
	return p.parse()
}

// ParseReader reads all of src and parses it.
func ParseReader(src io.Reader, opts ...ParseOption) ([]Token, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("fluxion: reading source: %w", err)
	}
	return Parse(string(b), opts...)
}

func (p *parser) parse() ([]Token, error) {
	var (
		toks []Token
		errs ErrorList
	)
	for p.cur.peek() != eof {
		t, err := p.parseStatement()
		if err != nil {
			var se *SyntaxError
			if !errors.As(err, &se) {
				panic("fluxion: unexpected error type: " + err.Error())
			}
			errs = append(errs, se)
			p.ctx.log.Debug("syntax error", "line", se.Line, "col", se.Col, "msg", se.Msg)
			if len(errs) >= p.ctx.errs {
				p.ctx.log.Debug("too many errors", "count", len(errs))
				break
			}
			p.cur.skipLine()
			continue
		}
		if t != nil {
			p.ctx.log.Debug("statement", "line", t.Line(), "kind", t.Kind())
			toks = append(toks, t)
		}
		// parseStatement stops at a newline or the end of the input.
		p.cur.consume()
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return toks, nil
}

// parseStatement parses one line. The result is nil if the line is empty.
func (p *parser) parseStatement() (Token, error) {
	ex, err := p.parseExpression("")
	if err != nil {
		return nil, err
	}
	if ex.Len() == 0 {
		return nil, nil
	}
	return p.sequence(ex)
}

// enter records that the parser is starting a nested construct.
func (p *parser) enter() error {
	if p.depth >= p.ctx.depth {
		return p.cur.errorf(Undefined, "nesting exceeds %d levels", p.ctx.depth)
	}
	p.depth++
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// parseExpression parses tokens until the cursor reaches a rune in term or the
// end of the line. The cursor is left on that rune.
func (p *parser) parseExpression(term string) (*Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	ex := NewExpression(p.cur.line())
	// name accumulates an identifier until something ends it.
	var (
		name     strings.Builder
		nameLine int
	)
	flush := func() {
		if name.Len() == 0 {
			return
		}
		ex.Append(NewIdentifier(nameLine, name.String()))
		name.Reset()
	}
	for {
		r := p.cur.peek()
		if p.cur.cont {
			if err := p.continuation(); err != nil {
				return nil, err
			}
			continue
		}
		switch {
		case r == eof, p.cur.isEOL(), strings.ContainsRune(term, r):
			flush()
			ex.Finalize()
			return ex, nil
		case p.cur.isWhitespace():
			flush()
			p.cur.consume()
		case r == '\\' && p.cur.doublePeek() == '\\':
			flush()
			p.cur.beginContinuation()
		case r == ';':
			flush()
			if err := p.comment(); err != nil {
				return nil, err
			}
		case r == '(':
			if name.Len() == 0 {
				sub, err := p.parseGroup()
				if err != nil {
					return nil, err
				}
				ex.Append(sub)
				continue
			}
			// The name is a function being called.
			fn, err := p.parseCall(nameLine, name.String())
			if err != nil {
				return nil, err
			}
			name.Reset()
			ex.Append(fn)
		case r == '{':
			flush()
			t, err := p.parseSet()
			if err != nil {
				return nil, err
			}
			ex.Append(t)
		case r == '[':
			flush()
			m, err := p.parseMatrix()
			if err != nil {
				return nil, err
			}
			ex.Append(m)
		case isOperatorLead(r) && !(r == 'i' && name.Len() > 0):
			flush()
			op, ok, err := matchOperator(p.cur)
			if err != nil {
				return nil, err
			}
			if ok {
				ex.Append(op)
				continue
			}
			// An i that isn't the word in starts a name.
			nameLine = p.cur.line()
			name.WriteRune(p.cur.pop())
		case name.Len() == 0 && (p.cur.isDigit() || r == '.'):
			n, err := scanNumber(p.cur, p.ctx.strict)
			if err != nil {
				return nil, err
			}
			ex.Append(n)
		case strings.ContainsRune(closers, r):
			return nil, p.cur.errorf(Undefined, "unexpected %q", r)
		case p.cur.isInvalid():
			return nil, p.cur.errorf(Undefined, "invalid UTF-8 byte %#02x", p.cur.src[p.cur.pos.off])
		default:
			if name.Len() == 0 {
				nameLine = p.cur.line()
			}
			name.WriteRune(p.cur.pop())
		}
	}
}

// continuation handles the rune following a \\, which must end the line.
func (p *parser) continuation() error {
	switch p.cur.peek() {
	case '\r':
		p.cur.consume()
		return nil
	case '\n':
		p.cur.endContinuation()
		return nil
	}
	return p.cur.errorf(Undefined, "Expected new line")
}

// comment skips a ;; line comment, up to but not including the newline, or a
// ;* block comment through its closing *;.
func (p *parser) comment() error {
	p.cur.consume()
	switch p.cur.peek() {
	case ';':
		for r := p.cur.peek(); r != '\n' && r != eof; r = p.cur.peek() {
			p.cur.consume()
		}
		return nil
	case '*':
		p.cur.consume()
		for {
			switch p.cur.pop() {
			case eof:
				return p.cur.errorf(Undefined, "Expected *;")
			case '*':
				if p.cur.peek() == ';' {
					p.cur.consume()
					return nil
				}
			}
		}
	}
	return p.cur.errorf(Undefined, "Expected ; or *")
}

// parseGroup parses a parenthesized expression.
func (p *parser) parseGroup() (*Expression, error) {
	p.cur.consume()
	sub, err := p.parseExpression(")")
	if err != nil {
		return nil, err
	}
	if p.cur.peek() != ')' {
		return nil, p.cur.errorf(Undefined, "Expected )")
	}
	p.cur.consume()
	return sub, nil
}

// parseCall parses the argument list of a call to the named function. The
// cursor is on the opening parenthesis.
func (p *parser) parseCall(ln int, name string) (*Function, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	fn := NewFunction(ln, name)
	p.cur.consume()
	for {
		r := p.cur.peek()
		if r == eof {
			return nil, p.cur.errorf(Undefined, "Expected )")
		}
		if p.cur.cont {
			if err := p.continuation(); err != nil {
				return nil, err
			}
			continue
		}
		switch {
		case r == ')':
			p.cur.consume()
			fn.Finalize()
			return fn, nil
		case r == '\n':
			return nil, p.cur.errorf(Undefined, "Expected )")
		case r == '\\' && p.cur.doublePeek() == '\\':
			p.cur.beginContinuation()
		case r == ';':
			if err := p.comment(); err != nil {
				return nil, err
			}
		case p.cur.isWhitespace():
			p.cur.consume()
		case r == ',':
			return nil, p.cur.errorf(Undefined, "Expected argument")
		default:
			arg, err := p.parseExpression(",)")
			if err != nil {
				return nil, err
			}
			fn.AddArgument(arg)
			if p.cur.peek() == ',' {
				p.cur.consume()
			}
		}
	}
}
