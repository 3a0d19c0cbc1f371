package fluxion

import (
	"strings"
)

func (n *Number) String() string { return n.Text }

func (id *Identifier) String() string { return id.Name }

func (op *Operator) String() string { return op.Op.Symbol() }

func (e *Expression) String() string { return fmtString(e) }

func (f *Function) String() string { return fmtString(f) }

func (f *Finite) String() string { return fmtString(f) }

func (m *Matrix) String() string { return fmtString(m) }

func (s *Sequence) String() string { return fmtString(s) }

func (b *Builder) String() string { return fmtString(b) }

func fmtString(t Token) string {
	var b strings.Builder
	fmtToken(&b, t)
	return b.String()
}

// fmtToken writes a token. Expressions are always parenthesized, so the
// output shows the shape of the tree.
func fmtToken(b *strings.Builder, t Token) {
	switch t := t.(type) {
	case nil:
		// Unset matrix cells.
		b.WriteByte('$')
	case *Number:
		b.WriteString(t.Text)
	case *Identifier:
		b.WriteString(t.Name)
	case *Operator:
		b.WriteString(t.Op.Symbol())
	case *Expression:
		b.WriteByte('(')
		fmtList(b, t.Tokens(), " ")
		b.WriteByte(')')
	case *Function:
		b.WriteString(t.Name())
		b.WriteByte('(')
		fmtList(b, t.Args(), ", ")
		b.WriteByte(')')
	case *Finite:
		b.WriteByte('{')
		fmtList(b, t.Members(), ", ")
		b.WriteByte('}')
	case *Matrix:
		b.WriteByte('[')
		for r := 0; r < t.Rows(); r++ {
			if r > 0 {
				b.WriteString("; ")
			}
			for c := 0; c < t.Cols(); c++ {
				if c > 0 {
					b.WriteString(", ")
				}
				fmtToken(b, t.At(r, c))
			}
		}
		b.WriteByte(']')
	case *Sequence:
		fmtToken(b, t.Prelist)
		b.WriteByte(' ')
		b.WriteString(t.Element.Name)
		b.WriteByte('_')
		b.WriteString(t.Index.Name)
		b.WriteString(" -> ")
		fmtToken(b, t.Rule)
	case *Builder:
		b.WriteByte('{')
		b.WriteString(t.Variable.Name)
		b.WriteString(" | ")
		fmtToken(b, t.Constraint)
		b.WriteByte('}')
	default:
		panic("fluxion: invalid token kind " + t.Kind().String() + " after writing " + b.String())
	}
}

func fmtList(b *strings.Builder, l []Token, sep string) {
	for i, t := range l {
		if i > 0 {
			b.WriteString(sep)
		}
		fmtToken(b, t)
	}
}
