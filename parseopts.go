package fluxion

import (
	"io"
	"log/slog"
)

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	depthopt  int
	errsopt   int
	strictopt struct{}
	logopt    struct{ l *slog.Logger }
)

const (
	// DefaultMaxDepth is the nesting depth limit when no MaxDepth option is
	// given.
	DefaultMaxDepth = 256
	// DefaultMaxErrors is the error limit when no MaxErrors option is given.
	DefaultMaxErrors = 10
)

// parsectx holds general data for parsing. It is also a ParseOption.
type parsectx struct {
	// depth is the maximum number of nested constructs.
	depth int
	// errs is the number of errors after which parsing stops.
	errs int
	// strict makes malformed number literals errors.
	strict bool
	// log receives debug events.
	log *slog.Logger
}

func defaultctx() parsectx {
	return parsectx{
		depth: DefaultMaxDepth,
		errs:  DefaultMaxErrors,
	}
}

// MaxDepth limits how deeply parentheses, calls, sets, and matrices may nest.
// Input that nests deeper is an error. Panics if n is not positive.
func MaxDepth(n int) ParseOption {
	if n <= 0 {
		panic("fluxion: MaxDepth must be positive")
	}
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.depth = int(o)
	return p
}

// MaxErrors sets the number of errors after which the parser gives up on the
// rest of the input. Panics if n is not positive.
func MaxErrors(n int) ParseOption {
	if n <= 0 {
		panic("fluxion: MaxErrors must be positive")
	}
	return errsopt(n)
}

func (o errsopt) parseOption(p parsectx) parsectx {
	p.errs = int(o)
	return p
}

// StrictNumbers makes number literals with more than one decimal point, or
// with no digits, errors. Without it, such literals take the value of their
// longest valid prefix.
func StrictNumbers() ParseOption {
	return strictopt{}
}

func (strictopt) parseOption(p parsectx) parsectx {
	p.strict = true
	return p
}

// Logger sets a logger to receive debug events during parsing: each statement
// parsed and each error recovered from.
func Logger(l *slog.Logger) ParseOption {
	return logopt{l}
}

func (o logopt) parseOption(p parsectx) parsectx {
	p.log = o.l
	return p
}

// ParsingPreset combines a list of options into one. A preset replaces any
// options applied before it, so it should come first; options applied after it
// override it.
func ParsingPreset(opts ...ParseOption) ParseOption {
	p := defaultctx()
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	return &p
}

func (o *parsectx) parseOption(p parsectx) parsectx {
	return *o
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))
