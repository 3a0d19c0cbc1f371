package fluxion

import (
	"strconv"
	"strings"
)

// OpKind is the kind of an operator token.
type OpKind int8

const (
	// scope
	SCOPE  OpKind = iota // ::
	ASSIGN               // :=
	// comparison
	LESS    // <
	GREATER // >
	LEQ     // <=
	GEQ     // >=
	EQUAL   // =
	NEQ     // \=
	// multi-use
	AMPERSAND // &
	BAR       // |
	NOT       // \
	// differential
	DIFF  // '
	LIMIT // ->
	// sets and sequences
	IN  // in
	GET // _
	// algebraic
	PLUS      // +
	MINUS     // -
	MULTIPLY  // *
	DIVIDE    // /
	POWER     // ^
	FACTORIAL // !
)

var opNames = [...]struct{ name, sym string }{
	SCOPE:     {"SCOPE", "::"},
	ASSIGN:    {"ASSIGN", ":="},
	LESS:      {"LESS", "<"},
	GREATER:   {"GREATER", ">"},
	LEQ:       {"LEQ", "<="},
	GEQ:       {"GEQ", ">="},
	EQUAL:     {"EQUAL", "="},
	NEQ:       {"NEQ", `\=`},
	AMPERSAND: {"AMPERSAND", "&"},
	BAR:       {"BAR", "|"},
	NOT:       {"NOT", `\`},
	DIFF:      {"DIFF", "'"},
	LIMIT:     {"LIMIT", "->"},
	IN:        {"IN", "in"},
	GET:       {"GET", "_"},
	PLUS:      {"PLUS", "+"},
	MINUS:     {"MINUS", "-"},
	MULTIPLY:  {"MULTIPLY", "*"},
	DIVIDE:    {"DIVIDE", "/"},
	POWER:     {"POWER", "^"},
	FACTORIAL: {"FACTORIAL", "!"},
}

func (k OpKind) String() string {
	if k < 0 || int(k) >= len(opNames) {
		return "OpKind(" + strconv.Itoa(int(k)) + ")"
	}
	return opNames[k].name
}

// Symbol returns the source text of the operator.
func (k OpKind) Symbol() string {
	if k < 0 || int(k) >= len(opNames) {
		return "?"
	}
	return opNames[k].sym
}

// opNamed finds an operator by its name.
func opNamed(s string) (OpKind, bool) {
	for k, n := range opNames {
		if n.name == s {
			return OpKind(k), true
		}
	}
	return 0, false
}

// OperatorLeads contains the runes which may begin an operator.
const OperatorLeads = `+-\*/&<>i=:!'_^|`

// isOperatorLead reports whether r may begin an operator.
func isOperatorLead(r rune) bool {
	return strings.ContainsRune(OperatorLeads, r)
}

// matchOperator scans the longest operator at the cursor. If the cursor is at
// an i that does not begin the word in, the result is no token and no error,
// and the cursor is where it started.
func matchOperator(c *cursor) (*Operator, bool, error) {
	ln := c.line()
	r := c.pop()
	op := func(k OpKind) (*Operator, bool, error) {
		return NewOperator(ln, k), true, nil
	}
	// follow consumes the next rune if it is want.
	follow := func(want rune) bool {
		if c.peek() == want {
			c.consume()
			return true
		}
		return false
	}
	switch r {
	case '+':
		return op(PLUS)
	case '*':
		return op(MULTIPLY)
	case '/':
		return op(DIVIDE)
	case '&':
		return op(AMPERSAND)
	case '!':
		return op(FACTORIAL)
	case '_':
		return op(GET)
	case '^':
		return op(POWER)
	case '\'':
		return op(DIFF)
	case '|':
		return op(BAR)
	case '=':
		return op(EQUAL)
	case '-':
		if follow('>') {
			return op(LIMIT)
		}
		return op(MINUS)
	case '\\':
		if follow('=') {
			return op(NEQ)
		}
		return op(NOT)
	case '<':
		if follow('=') {
			return op(LEQ)
		}
		return op(LESS)
	case '>':
		if follow('=') {
			return op(GEQ)
		}
		return op(GREATER)
	case ':':
		switch {
		case follow(':'):
			return op(SCOPE)
		case follow('='):
			return op(ASSIGN)
		}
		return nil, false, c.errorf(Undefined, "':' operator is not defined on any type")
	case 'i':
		if c.peek() == 'n' {
			switch c.doublePeek() {
			case ' ', '\t', '\r', '\n', eof:
				c.consume()
				return op(IN)
			}
		}
		c.rewind()
		return nil, false, nil
	default:
		panic("fluxion: not an operator: " + strconv.QuoteRune(r))
	}
}
