package fluxion

import (
	"strconv"
)

// Token is a node in a parsed Fluxion program. The set of tokens is closed:
// every Token is one of *Number, *Identifier, *Function, *Operator,
// *Expression, *Finite, *Matrix, *Sequence, or *Builder.
//
// A token that contains other tokens owns them. No token appears in more than
// one place in a tree.
type Token interface {
	// Line returns the 1-based source line where the token begins.
	Line() int
	// Kind returns the token's variant.
	Kind() Kind
	// String formats the token as Fluxion source, with every expression
	// parenthesized.
	String() string

	token()
}

// Kind identifies the variant of a token.
type Kind int8

const (
	KindNumber Kind = iota
	KindFinite
	KindBuilder
	KindMatrix
	KindSequence
	KindExpression
	KindOperator
	KindIdentifier
	KindFunction
)

var kindNames = [...]string{
	KindNumber:     "Number",
	KindFinite:     "Finite",
	KindBuilder:    "Builder",
	KindMatrix:     "Matrix",
	KindSequence:   "Sequence",
	KindExpression: "Expression",
	KindOperator:   "Operator",
	KindIdentifier: "Identifier",
	KindFunction:   "Function",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// kindNamed is the inverse of Kind.String.
func kindNamed(s string) (Kind, bool) {
	for k, n := range kindNames {
		if n == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// IdentKind distinguishes identifiers naming variables from those naming
// functions.
type IdentKind int8

const (
	Variable IdentKind = iota
	FunctionName
)

func (k IdentKind) String() string {
	switch k {
	case Variable:
		return "Variable"
	case FunctionName:
		return "Function"
	default:
		return "IdentKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// line is embedded in every token.
type line int

func (l line) Line() int { return int(l) }

// Number is a numeric literal.
type Number struct {
	line
	// Value is the parsed value of the literal.
	Value float64
	// Text is the literal as written.
	Text string
}

// NewNumber creates a number token.
func NewNumber(ln int, value float64, text string) *Number {
	return &Number{line: line(ln), Value: value, Text: text}
}

func (*Number) Kind() Kind { return KindNumber }
func (*Number) token()     {}

// Identifier is a name.
type Identifier struct {
	line
	// Name is the identifier's text. It is never empty.
	Name string
	// Ident is whether the name is a variable or a function.
	Ident IdentKind
}

// NewIdentifier creates a variable identifier. Panics if name is empty.
func NewIdentifier(ln int, name string) *Identifier {
	if name == "" {
		panic("fluxion: empty identifier")
	}
	return &Identifier{line: line(ln), Name: name, Ident: Variable}
}

func (*Identifier) Kind() Kind { return KindIdentifier }
func (*Identifier) token()     {}

// Operator is an operator.
type Operator struct {
	line
	Op OpKind
}

// NewOperator creates an operator token.
func NewOperator(ln int, op OpKind) *Operator {
	return &Operator{line: line(ln), Op: op}
}

func (*Operator) Kind() Kind { return KindOperator }
func (*Operator) token()     {}

// list is the growable storage shared by expressions, finite collections, and
// function argument lists. Appends double the capacity as needed; finalize
// trims it to the length and closes the list to further appends.
type list struct {
	items []Token
	done  bool
}

func (l *list) add(t Token, what string) {
	if l.done {
		panic("fluxion: append to finalized " + what)
	}
	if t == nil {
		panic("fluxion: append nil token to " + what)
	}
	if len(l.items) == cap(l.items) {
		c := 2 * cap(l.items)
		if c == 0 {
			c = 1
		}
		items := make([]Token, len(l.items), c)
		copy(items, l.items)
		l.items = items
	}
	l.items = append(l.items, t)
}

func (l *list) finalize() {
	if l.done {
		return
	}
	if len(l.items) != cap(l.items) {
		items := make([]Token, len(l.items))
		copy(items, l.items)
		l.items = items
	}
	l.done = true
}

// Expression is an ordered sequence of tokens.
type Expression struct {
	line
	list
}

// NewExpression creates an empty expression.
func NewExpression(ln int) *Expression {
	return &Expression{line: line(ln)}
}

func (*Expression) Kind() Kind { return KindExpression }
func (*Expression) token()     {}

// Append adds a token to the end of the expression. The expression takes
// ownership of t. Panics if the expression is finalized.
func (e *Expression) Append(t Token) { e.add(t, "expression") }

// Finalize trims the expression's storage and closes it to appends. It is safe
// to call more than once.
func (e *Expression) Finalize() { e.finalize() }

// Finalized reports whether Finalize has been called.
func (e *Expression) Finalized() bool { return e.done }

// Tokens returns the expression's children. The slice must not be modified.
func (e *Expression) Tokens() []Token { return e.items }

// Len returns the number of children.
func (e *Expression) Len() int { return len(e.items) }

// Cap returns the capacity of the expression's storage.
func (e *Expression) Cap() int { return cap(e.items) }

// Finite is an explicitly enumerated collection.
type Finite struct {
	line
	list
}

// NewFinite creates an empty collection.
func NewFinite(ln int) *Finite {
	f := &Finite{line: line(ln)}
	f.items = make([]Token, 0, 4)
	return f
}

func (*Finite) Kind() Kind { return KindFinite }
func (*Finite) token()     {}

// Append adds a member to the collection, which takes ownership of it.
// Panics if the collection is finalized.
func (f *Finite) Append(t Token) { f.add(t, "finite") }

// Finalize trims the collection's storage and closes it to appends. It is safe
// to call more than once.
func (f *Finite) Finalize() { f.finalize() }

// Finalized reports whether Finalize has been called.
func (f *Finite) Finalized() bool { return f.done }

// Members returns the collection's members. The slice must not be modified.
func (f *Finite) Members() []Token { return f.items }

// Len returns the number of members.
func (f *Finite) Len() int { return len(f.items) }

// Cap returns the capacity of the collection's storage.
func (f *Finite) Cap() int { return cap(f.items) }

// Function is a call of a named function.
type Function struct {
	// Ident is the function's name. Its Ident field is FunctionName.
	Ident *Identifier
	args  list
}

// NewFunction creates a call with no arguments. Panics if name is empty.
func NewFunction(ln int, name string) *Function {
	id := NewIdentifier(ln, name)
	id.Ident = FunctionName
	return &Function{Ident: id}
}

func (f *Function) Line() int { return f.Ident.Line() }
func (*Function) Kind() Kind  { return KindFunction }
func (*Function) token()      {}

// Name returns the name of the called function.
func (f *Function) Name() string { return f.Ident.Name }

// AddArgument appends an argument, which the call takes ownership of. Panics
// if the call is finalized.
func (f *Function) AddArgument(arg Token) { f.args.add(arg, "function") }

// Finalize trims the argument list and closes it to appends. It is safe to
// call more than once.
func (f *Function) Finalize() { f.args.finalize() }

// Finalized reports whether Finalize has been called.
func (f *Function) Finalized() bool { return f.args.done }

// Args returns the arguments. The slice must not be modified.
func (f *Function) Args() []Token { return f.args.items }

// Arity returns the number of arguments.
func (f *Function) Arity() int { return len(f.args.items) }

// Cap returns the capacity of the argument list's storage.
func (f *Function) Cap() int { return cap(f.args.items) }

// Matrix is a grid of tokens.
type Matrix struct {
	line
	rows, cols int
	// members is row-major: (r, c) is at r*cols + c.
	members []Token
}

// NewMatrix creates a matrix with no rows or columns.
func NewMatrix(ln int) *Matrix {
	return &Matrix{line: line(ln)}
}

func (*Matrix) Kind() Kind { return KindMatrix }
func (*Matrix) token()     {}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Set places t at row r and column c, replacing any token already there. The
// matrix grows to include (r, c) if needed; members already set keep their
// positions. The matrix takes ownership of t. Panics if r or c is negative.
func (m *Matrix) Set(r, c int, t Token) {
	if r < 0 || c < 0 {
		panic("fluxion: negative matrix index " + strconv.Itoa(r) + ", " + strconv.Itoa(c))
	}
	if r >= m.rows || c >= m.cols {
		m.grow(max(r+1, m.rows), max(c+1, m.cols))
	}
	m.members[r*m.cols+c] = t
}

// grow reallocates the grid for new dimensions.
func (m *Matrix) grow(rows, cols int) {
	members := make([]Token, rows*cols)
	for r := 0; r < m.rows; r++ {
		copy(members[r*cols:r*cols+m.cols], m.members[r*m.cols:(r+1)*m.cols])
	}
	m.rows, m.cols, m.members = rows, cols, members
}

// At returns the token at row r and column c. The result is nil if no token
// was set there or the position is outside the matrix.
func (m *Matrix) At(r, c int) Token {
	if r < 0 || c < 0 || r >= m.rows || c >= m.cols {
		return nil
	}
	return m.members[r*m.cols+c]
}

// Sequence is a recurrence definition such as {1, 1} x_n -> x_(n-1) + x_(n-2).
type Sequence struct {
	line
	// Prelist holds the seed values.
	Prelist *Finite
	// Element is the sequence variable, x in x_n.
	Element *Identifier
	// Index is the index variable, n in x_n.
	Index *Identifier
	// Rule computes the element at Index.
	Rule *Expression
}

// NewSequence creates a sequence definition, which takes ownership of its
// parts.
func NewSequence(ln int, prelist *Finite, element, index *Identifier, rule *Expression) *Sequence {
	return &Sequence{line: line(ln), Prelist: prelist, Element: element, Index: index, Rule: rule}
}

func (*Sequence) Kind() Kind { return KindSequence }
func (*Sequence) token()     {}

// Builder is set-builder notation, {x | constraint}.
type Builder struct {
	line
	Variable   *Identifier
	Constraint *Expression
}

// NewBuilder creates a set-builder definition, which takes ownership of its
// parts.
func NewBuilder(ln int, variable *Identifier, constraint *Expression) *Builder {
	return &Builder{line: line(ln), Variable: variable, Constraint: constraint}
}

func (*Builder) Kind() Kind { return KindBuilder }
func (*Builder) token()     {}

// Walk calls fn for t and then for each token t contains, depth-first in
// source order. If fn returns false, Walk does not descend into that token.
func Walk(t Token, fn func(Token) bool) {
	if t == nil || !fn(t) {
		return
	}
	switch t := t.(type) {
	case *Number, *Identifier, *Operator:
		// leaves
	case *Function:
		Walk(t.Ident, fn)
		for _, a := range t.Args() {
			Walk(a, fn)
		}
	case *Expression:
		for _, c := range t.Tokens() {
			Walk(c, fn)
		}
	case *Finite:
		for _, c := range t.Members() {
			Walk(c, fn)
		}
	case *Matrix:
		for _, c := range t.members {
			Walk(c, fn)
		}
	case *Sequence:
		Walk(t.Prelist, fn)
		Walk(t.Element, fn)
		Walk(t.Index, fn)
		Walk(t.Rule, fn)
	case *Builder:
		Walk(t.Variable, fn)
		Walk(t.Constraint, fn)
	default:
		panic("fluxion: unknown token " + t.Kind().String())
	}
}
