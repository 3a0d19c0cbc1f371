package fluxion

import (
	"strconv"
	"strings"
)

// ErrorKind classifies an error.
type ErrorKind int8

const (
	// Undefined is malformed syntax: an operator with no meaning, a missing
	// delimiter, an unexpected line break.
	Undefined ErrorKind = iota
	// Indeterminate is reserved for evaluation. The parser never reports it.
	Indeterminate
	// Overflow is reserved for evaluation. The parser never reports it.
	Overflow
)

func (k ErrorKind) String() string {
	switch k {
	case Undefined:
		return "Undefined"
	case Indeterminate:
		return "Indeterminate"
	case Overflow:
		return "Overflow"
	default:
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// SyntaxError is an error in the input text. It implements InputError.
type SyntaxError struct {
	// Kind classifies the error.
	Kind ErrorKind
	// Line is the 1-based line on which the error was found.
	Line int
	// Col is the 1-based rune column on Line.
	Col int
	// Offset is the number of runes up to and including the one at which the
	// error was found.
	Offset int
	// Msg describes the error.
	Msg string
}

func (err *SyntaxError) Error() string {
	return errpos(err.Line, err.Col, err.Kind.String()+": "+err.Msg)
}

func (err *SyntaxError) Pos() int {
	return err.Offset
}

// errpos is a shortcut to create an error message with a position.
func errpos(line, col int, msg string) string {
	return strconv.Itoa(line) + ":" + strconv.Itoa(col) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the one that caused the error.
	Pos() int
}

var _ InputError = (*SyntaxError)(nil)

// ErrorList is the list of errors from a parse. A non-nil error returned by
// Parse is always a non-empty ErrorList.
type ErrorList []*SyntaxError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	b.WriteString(l[0].Error())
	b.WriteString(" (and ")
	b.WriteString(strconv.Itoa(len(l) - 1))
	if len(l) == 2 {
		b.WriteString(" more error)")
	} else {
		b.WriteString(" more errors)")
	}
	return b.String()
}

// Unwrap allows errors.As and errors.Is to inspect each error in the list.
func (l ErrorList) Unwrap() []error {
	r := make([]error, len(l))
	for i, err := range l {
		r[i] = err
	}
	return r
}
