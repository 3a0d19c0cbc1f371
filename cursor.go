package fluxion

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// eof is the rune the cursor reports past the end of its source. A NUL in the
// source also ends it.
const eof rune = 0

// position is a location in the source.
type position struct {
	// off is the byte offset.
	off uint32
	// line and col are 1-based.
	line, col int
	// rune is the 1-based index of the rune at off.
	rune int
}

// cursor reads runes from source text. It never modifies the source.
type cursor struct {
	src   string
	limit uint32
	pos   position
	// prev is the position before the last consume. back is whether rewind
	// may restore it.
	prev position
	back bool
	// cont is whether a line continuation is active, in which case newlines
	// do not end lines.
	cont bool
}

func newCursor(src string) (*cursor, *SyntaxError) {
	limit, err := sourceLimit(len(src))
	if err != nil {
		return nil, err
	}
	return &cursor{
		src:   src,
		limit: limit,
		pos:   position{line: 1, col: 1, rune: 1},
	}, nil
}

// sourceLimit converts a source length to a byte offset limit. Sources whose
// offsets don't fit in a uint32 are errors at the first position.
func sourceLimit(n int) (uint32, *SyntaxError) {
	limit, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0, &SyntaxError{
			Kind:   Undefined,
			Line:   1,
			Col:    1,
			Offset: 1,
			Msg:    fmt.Sprintf("source of %d bytes is too large", n),
		}
	}
	return limit, nil
}

// peek returns the current rune without advancing.
func (c *cursor) peek() rune {
	if c.pos.off >= c.limit {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(c.src[c.pos.off:])
	return r
}

// doublePeek returns the rune after the current one.
func (c *cursor) doublePeek() rune {
	if c.pos.off >= c.limit {
		return eof
	}
	_, sz := utf8.DecodeRuneInString(c.src[c.pos.off:])
	if c.pos.off+uint32(sz) >= c.limit {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(c.src[c.pos.off+uint32(sz):])
	return r
}

// consume advances past the current rune. It does nothing at the end of the
// source. Stepping over a newline starts the next line.
func (c *cursor) consume() {
	if c.peek() == eof {
		return
	}
	r, sz := utf8.DecodeRuneInString(c.src[c.pos.off:])
	c.prev = c.pos
	c.back = true
	c.pos.off += uint32(sz)
	c.pos.rune++
	if r == '\n' {
		c.pos.line++
		c.pos.col = 1
	} else {
		c.pos.col++
	}
}

// pop returns the current rune and advances past it.
func (c *cursor) pop() rune {
	r := c.peek()
	c.consume()
	return r
}

// rewind undoes the last consume. Panics if there is nothing to undo, which
// includes a second rewind with no consume in between.
func (c *cursor) rewind() {
	if !c.back {
		panic("fluxion: double rewind")
	}
	c.pos = c.prev
	c.back = false
}

func (c *cursor) isDigit() bool {
	r := c.peek()
	return '0' <= r && r <= '9'
}

// isInvalid reports whether the current byte is not the start of a valid
// UTF-8 encoding. peek reports such bytes as utf8.RuneError.
func (c *cursor) isInvalid() bool {
	if c.pos.off >= c.limit {
		return false
	}
	r, sz := utf8.DecodeRuneInString(c.src[c.pos.off:])
	return r == utf8.RuneError && sz <= 1
}

// isWhitespace reports whether the current rune is a space or tab. Carriage
// returns count as whitespace so that CRLF line endings work.
func (c *cursor) isWhitespace() bool {
	switch c.peek() {
	case ' ', '\t', '\r':
		return true
	}
	return false
}

// isEOL reports whether the current rune ends a line, which a newline does
// unless a continuation is active.
func (c *cursor) isEOL() bool {
	return c.peek() == '\n' && !c.cont
}

// line returns the current line number.
func (c *cursor) line() int {
	return c.pos.line
}

// beginContinuation consumes a \\ and enters continuation mode.
func (c *cursor) beginContinuation() {
	c.consume()
	c.consume()
	c.cont = true
}

// endContinuation consumes the newline that a continuation bridges.
func (c *cursor) endContinuation() {
	c.consume()
	c.cont = false
}

// skipLine discards everything through the next newline, regardless of
// continuations, and leaves continuation mode.
func (c *cursor) skipLine() {
	for {
		switch c.pop() {
		case '\n', eof:
			c.cont = false
			return
		}
	}
}

// errorf creates an error at the current position.
func (c *cursor) errorf(kind ErrorKind, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{
		Kind:   kind,
		Line:   c.pos.line,
		Col:    c.pos.col,
		Offset: c.pos.rune,
		Msg:    fmt.Sprintf(format, args...),
	}
}
