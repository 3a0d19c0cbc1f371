package fluxion

import (
	"strconv"
	"strings"
)

// scanNumber scans a run of digits and decimal points. If strict is false, a
// run with several points has the value of its longest valid prefix, so 1.2.3
// is 1.2, and a lone point is 0.
func scanNumber(c *cursor, strict bool) (*Number, error) {
	ln := c.line()
	start := c.pos.off
	for isNumeral(c.peek()) {
		c.consume()
	}
	text := c.src[start:c.pos.off]
	if strict && (strings.Count(text, ".") > 1 || strings.Trim(text, ".") == "") {
		return nil, c.errorf(Undefined, "malformed number %q", text)
	}
	return NewNumber(ln, decimal(text), text), nil
}

// isNumeral reports whether r may appear in a number literal.
func isNumeral(r rune) bool {
	return '0' <= r && r <= '9' || r == '.'
}

// isNumberText reports whether s is a number literal as scanNumber reads it.
func isNumberText(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isNumeral(r) {
			return false
		}
	}
	return true
}

// decimal converts the longest prefix of s that is a decimal literal. s must
// satisfy isNumberText. Literals too large for a float64 are infinite.
func decimal(s string) float64 {
	if k := strings.IndexByte(s, '.'); k >= 0 {
		if j := strings.IndexByte(s[k+1:], '.'); j >= 0 {
			s = s[:k+1+j]
		}
	}
	if strings.Trim(s, ".") == "" {
		return 0
	}
	// The only possible error is ErrRange, and v is ±Inf then.
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
