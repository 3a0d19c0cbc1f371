package fluxion

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// Tree is a serializable form of a token.
//
// Text holds a number's literal, an identifier's or function's name, or an
// operator's name. Children holds a function's arguments, the contents of an
// expression or finite collection, the cells of a matrix in row-major order,
// a sequence's prelist, element, index, and rule, or a builder's variable and
// constraint.
type Tree struct {
	Kind     string  `json:"kind" msgpack:"kind"`
	Line     int     `json:"line" msgpack:"line"`
	Text     string  `json:"text,omitempty" msgpack:"text,omitempty"`
	Value    float64 `json:"value,omitempty" msgpack:"value,omitempty"`
	Rows     int     `json:"rows,omitempty" msgpack:"rows,omitempty"`
	Cols     int     `json:"cols,omitempty" msgpack:"cols,omitempty"`
	Children []*Tree `json:"children,omitempty" msgpack:"children,omitempty"`
}

// TreeOf converts a token to a Tree. The result is nil if t is nil.
func TreeOf(t Token) *Tree {
	if t == nil {
		return nil
	}
	r := &Tree{Kind: t.Kind().String(), Line: t.Line()}
	switch t := t.(type) {
	case *Number:
		r.Text = t.Text
		if !math.IsInf(t.Value, 0) && !math.IsNaN(t.Value) {
			r.Value = t.Value
		}
	case *Identifier:
		r.Text = t.Name
	case *Operator:
		r.Text = t.Op.String()
	case *Function:
		r.Text = t.Name()
		r.Children = treesOf(t.Args())
	case *Expression:
		r.Children = treesOf(t.Tokens())
	case *Finite:
		r.Children = treesOf(t.Members())
	case *Matrix:
		r.Rows, r.Cols = t.Rows(), t.Cols()
		r.Children = treesOf(t.members)
	case *Sequence:
		r.Children = []*Tree{TreeOf(t.Prelist), TreeOf(t.Element), TreeOf(t.Index), TreeOf(t.Rule)}
	case *Builder:
		r.Children = []*Tree{TreeOf(t.Variable), TreeOf(t.Constraint)}
	default:
		panic("fluxion: unknown token " + t.Kind().String())
	}
	return r
}

func treesOf(l []Token) []*Tree {
	if len(l) == 0 {
		return nil
	}
	r := make([]*Tree, len(l))
	for i, t := range l {
		r[i] = TreeOf(t)
	}
	return r
}

// Token rebuilds the token that a tree describes. Containers in the result are
// finalized.
func (tr *Tree) Token() (Token, error) {
	if tr == nil {
		return nil, fmt.Errorf("fluxion: nil tree")
	}
	k, ok := kindNamed(tr.Kind)
	if !ok {
		return nil, fmt.Errorf("fluxion: unknown token kind %q on line %d", tr.Kind, tr.Line)
	}
	switch k {
	case KindNumber:
		if !isNumberText(tr.Text) {
			return nil, tr.errorf("malformed number %q", tr.Text)
		}
		return NewNumber(tr.Line, decimal(tr.Text), tr.Text), nil
	case KindIdentifier:
		if tr.Text == "" {
			return nil, tr.errorf("identifier without name")
		}
		return NewIdentifier(tr.Line, tr.Text), nil
	case KindOperator:
		op, ok := opNamed(tr.Text)
		if !ok {
			return nil, tr.errorf("unknown operator %q", tr.Text)
		}
		return NewOperator(tr.Line, op), nil
	case KindFunction:
		if tr.Text == "" {
			return nil, tr.errorf("function without name")
		}
		fn := NewFunction(tr.Line, tr.Text)
		for _, c := range tr.Children {
			a, err := c.Token()
			if err != nil {
				return nil, err
			}
			fn.AddArgument(a)
		}
		fn.Finalize()
		return fn, nil
	case KindExpression:
		ex := NewExpression(tr.Line)
		for _, c := range tr.Children {
			t, err := c.Token()
			if err != nil {
				return nil, err
			}
			ex.Append(t)
		}
		ex.Finalize()
		return ex, nil
	case KindFinite:
		f := NewFinite(tr.Line)
		for _, c := range tr.Children {
			t, err := c.Token()
			if err != nil {
				return nil, err
			}
			f.Append(t)
		}
		f.Finalize()
		return f, nil
	case KindMatrix:
		if !cellsFit(len(tr.Children), tr.Rows, tr.Cols) {
			return nil, tr.errorf("%d cells for %dx%d matrix", len(tr.Children), tr.Rows, tr.Cols)
		}
		m := NewMatrix(tr.Line)
		if tr.Rows > 0 && tr.Cols > 0 {
			m.grow(tr.Rows, tr.Cols)
		}
		for i, c := range tr.Children {
			if c == nil {
				continue
			}
			t, err := c.Token()
			if err != nil {
				return nil, err
			}
			m.Set(i/tr.Cols, i%tr.Cols, t)
		}
		return m, nil
	case KindSequence:
		if len(tr.Children) != 4 {
			return nil, tr.errorf("sequence with %d parts", len(tr.Children))
		}
		parts, err := tokensOf(tr.Children)
		if err != nil {
			return nil, err
		}
		pre, _ := parts[0].(*Finite)
		elem, _ := parts[1].(*Identifier)
		idx, _ := parts[2].(*Identifier)
		rule, _ := parts[3].(*Expression)
		if pre == nil || elem == nil || idx == nil || rule == nil {
			return nil, tr.errorf("sequence parts have the wrong kinds")
		}
		return NewSequence(tr.Line, pre, elem, idx, rule), nil
	case KindBuilder:
		if len(tr.Children) != 2 {
			return nil, tr.errorf("builder with %d parts", len(tr.Children))
		}
		parts, err := tokensOf(tr.Children)
		if err != nil {
			return nil, err
		}
		v, _ := parts[0].(*Identifier)
		c, _ := parts[1].(*Expression)
		if v == nil || c == nil {
			return nil, tr.errorf("builder parts have the wrong kinds")
		}
		return NewBuilder(tr.Line, v, c), nil
	default:
		panic("fluxion: unhandled kind " + k.String())
	}
}

// cellsFit reports whether n cells exactly fill a matrix of the given shape.
// An empty matrix is 0x0.
func cellsFit(n, rows, cols int) bool {
	if rows < 0 || cols < 0 || (rows == 0) != (cols == 0) {
		return false
	}
	if rows == 0 {
		return n == 0
	}
	// Checking by division avoids overflow in rows*cols.
	return n%rows == 0 && n/rows == cols
}

func tokensOf(trees []*Tree) ([]Token, error) {
	r := make([]Token, len(trees))
	for i, c := range trees {
		t, err := c.Token()
		if err != nil {
			return nil, err
		}
		r[i] = t
	}
	return r, nil
}

func (tr *Tree) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("fluxion: invalid %s on line %d: %s", tr.Kind, tr.Line, fmt.Sprintf(format, args...))
}

// EncodeMsgpack writes a list of tokens in MessagePack.
func EncodeMsgpack(w io.Writer, toks []Token) error {
	if err := msgpack.NewEncoder(w).Encode(treesOf(toks)); err != nil {
		return fmt.Errorf("fluxion: encoding tokens: %w", err)
	}
	return nil
}

// DecodeMsgpack reads a list of tokens written by EncodeMsgpack.
func DecodeMsgpack(r io.Reader) ([]Token, error) {
	var trees []*Tree
	if err := msgpack.NewDecoder(r).Decode(&trees); err != nil {
		return nil, fmt.Errorf("fluxion: decoding tokens: %w", err)
	}
	return tokensOf(trees)
}

// EncodeJSON writes a list of tokens as indented JSON.
func EncodeJSON(w io.Writer, toks []Token) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	trees := treesOf(toks)
	if trees == nil {
		trees = []*Tree{}
	}
	if err := enc.Encode(trees); err != nil {
		return fmt.Errorf("fluxion: encoding tokens: %w", err)
	}
	return nil
}
