package fluxion

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "\n\n  \n", nil},
		{"number", "1.5", []string{"(1.5)"}},
		{"name", "x", []string{"(x)"}},
		{"long-name", "alpha", []string{"(alpha)"}},
		{"digits-in-name", "x1", []string{"(x1)"}},
		{"term", "2x", []string{"(2 x)"}},
		{"add", "1 + 2", []string{"(1 + 2)"}},
		{"add-tight", "1+2", []string{"(1 + 2)"}},
		{"group", "(1+2)", []string{"((1 + 2))"}},
		{"empty-group", "()", []string{"(())"}},
		{"nested-group", "((x))", []string{"(((x)))"}},
		{"call", "f(1,2)", []string{"(f((1), (2)))"}},
		{"call-empty", "f()", []string{"(f())"}},
		{"call-nested", "f(g(x), y)", []string{"(f((g((x))), (y)))"}},
		{"call-trailing-comma", "f(a,)", []string{"(f((a)))"}},
		{"call-spaces", "f( a , b )", []string{"(f((a), (b)))"}},
		{"call-expr", "f(x + 1)", []string{"(f((x + 1)))"}},
		{"assign", "x := 3", []string{"(x := 3)"}},
		{"scope", "a::b", []string{"(a :: b)"}},
		{"leq", "a <= b", []string{"(a <= b)"}},
		{"less-name", "<x", []string{"(< x)"}},
		{"neq", `a\=b`, []string{`(a \= b)`}},
		{"not", `\a`, []string{`(\ a)`}},
		{"limit", "a->b", []string{"(a -> b)"}},
		{"minus", "a-b", []string{"(a - b)"}},
		{"factorial", "n!", []string{"(n !)"}},
		{"diff", "f'", []string{"(f ')"}},
		{"power", "x^2", []string{"(x ^ 2)"}},
		{"get", "x_n", []string{"(x _ n)"}},
		{"bars", "|x|", []string{"(| x |)"}},
		{"in", "x in S", []string{"(x in S)"}},
		{"in-alone", "in", []string{"(in)"}},
		{"int", "int", []string{"(int)"}},
		{"index", "index", []string{"(index)"}},
		{"pin", "pin x", []string{"(pin x)"}},
		{"i", "i", []string{"(i)"}},
		{"i-n", "i n", []string{"(i n)"}},
		{"unicode", "θ + π", []string{"(θ + π)"}},
		{"multi-dot", "1.2.3", []string{"(1.2.3)"}},
		{"finite", "{1, 2, 3}", []string{"({(1), (2), (3)})"}},
		{"finite-empty", "{}", []string{"({})"}},
		{"finite-nested", "{{a}, b}", []string{"({({(a)}), (b)})"}},
		{"builder", "{x | x > 0}", []string{"({x | (x > 0)})"}},
		{"builder-in", "{x | x in S & x < 3}", []string{"({x | (x in S & x < 3)})"}},
		{"matrix", "[1, 2; 3, 4]", []string{"([(1), (2); (3), (4)])"}},
		{"matrix-empty", "[]", []string{"([])"}},
		{"matrix-column", "[a; b]", []string{"([(a); (b)])"}},
		{"sequence", "{1, 1} x_n -> x_(n-1) + x_(n-2)", []string{"{(1), (1)} x_n -> (x _ (n - 1) + x _ (n - 2))"}},
		{"not-sequence", "{1} x_n + 1", []string{"({(1)} x _ n + 1)"}},
		{"lines", "a\nb\n\nc", []string{"(a)", "(b)", "(c)"}},
		{"crlf", "a\r\nb\r\n", []string{"(a)", "(b)"}},
		{"line-comment", ";; nothing here\nx ;; trailing", []string{"(x)"}},
		{"block-comment", "a ;* inner *; b", []string{"(a b)"}},
		{"block-comment-lines", "a ;* one\ntwo *; b\nc", []string{"(a b)", "(c)"}},
		{"block-comment-star", "a ;* ** x *; b", []string{"(a b)"}},
		{"call-comment", "f(a ;* note *;, b)", []string{"(f((a), (b)))"}},
		{"continuation", "1 + \\\\\n2", []string{"(1 + 2)"}},
		{"continuation-crlf", "1 + \\\\\r\n2", []string{"(1 + 2)"}},
		{"call-continuation", "f(1, \\\\\n2)", []string{"(f((1), (2)))"}},
		{"nul", "a\x00b", []string{"(a)"}},
		{"replacement-char", "\uFFFD", []string{"(\uFFFD)"}},
		{"comment-invalid", "x ;; \xff\xfe", []string{"(x)"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Parse(c.src)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.src, err)
			}
			got := make([]string, len(toks))
			for i, tok := range toks {
				got[i] = tok.String()
			}
			if len(got) != len(c.want) {
				t.Fatalf("%q: want %q, got %q", c.src, c.want, got)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Errorf("%q: statement %d: want %s, got %s", c.src, i, c.want[i], got[i])
				}
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	toks, err := Parse("f(1,2)\n(1+2)\n\n{1, 1} x_n -> x_(n-1)")
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 3 {
		t.Fatalf("want 3 statements, got %d", len(toks))
	}

	call := toks[0].(*Expression)
	if call.Len() != 1 || call.Line() != 1 {
		t.Fatalf("wrong first statement %v on line %d", call, call.Line())
	}
	fn, ok := call.Tokens()[0].(*Function)
	if !ok {
		t.Fatalf("want function, got %v", call.Tokens()[0].Kind())
	}
	if fn.Name() != "f" || fn.Arity() != 2 || !fn.Finalized() || fn.Cap() != 2 {
		t.Errorf("wrong call %v: arity %d cap %d", fn, fn.Arity(), fn.Cap())
	}
	for i, a := range fn.Args() {
		ex := a.(*Expression)
		n, ok := ex.Tokens()[0].(*Number)
		if ex.Len() != 1 || !ok || n.Value != float64(i+1) {
			t.Errorf("wrong argument %d: %v", i, a)
		}
	}

	group := toks[1].(*Expression)
	if group.Len() != 1 || group.Line() != 2 {
		t.Fatalf("wrong second statement %v on line %d", group, group.Line())
	}
	inner := group.Tokens()[0].(*Expression)
	kinds := []Kind{KindNumber, KindOperator, KindNumber}
	if inner.Len() != len(kinds) {
		t.Fatalf("wrong group %v", inner)
	}
	for i, k := range kinds {
		if inner.Tokens()[i].Kind() != k {
			t.Errorf("group token %d: want %v, got %v", i, k, inner.Tokens()[i].Kind())
		}
	}
	if op := inner.Tokens()[1].(*Operator); op.Op != PLUS {
		t.Errorf("want PLUS, got %v", op.Op)
	}

	seq, ok := toks[2].(*Sequence)
	if !ok {
		t.Fatalf("want sequence, got %v", toks[2].Kind())
	}
	if seq.Line() != 4 || seq.Prelist.Len() != 2 || seq.Element.Name != "x" || seq.Index.Name != "n" {
		t.Errorf("wrong sequence %v on line %d", seq, seq.Line())
	}
	if seq.Rule.Len() != 3 || !seq.Rule.Finalized() {
		t.Errorf("wrong rule %v", seq.Rule)
	}
}

func TestParseFinalized(t *testing.T) {
	toks, err := Parse("f(a, {b, c}, [d; e]) + {x | (y)}")
	if err != nil {
		t.Fatal(err)
	}
	for _, tok := range toks {
		Walk(tok, func(x Token) bool {
			switch t2 := x.(type) {
			case *Expression:
				if !t2.Finalized() || t2.Len() != t2.Cap() {
					t.Errorf("expression %v not finalized: len %d cap %d", t2, t2.Len(), t2.Cap())
				}
			case *Finite:
				if !t2.Finalized() || t2.Len() != t2.Cap() {
					t.Errorf("finite %v not finalized: len %d cap %d", t2, t2.Len(), t2.Cap())
				}
			case *Function:
				if !t2.Finalized() || t2.Arity() != t2.Cap() {
					t.Errorf("function %v not finalized: arity %d cap %d", t2, t2.Arity(), t2.Cap())
				}
			}
			return true
		})
	}
}

func TestParseLines(t *testing.T) {
	toks, err := Parse("a\n\n;; comment\nf(1, \\\\\n2) + b")
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 2 {
		t.Fatalf("want 2 statements, got %d", len(toks))
	}
	if toks[0].Line() != 1 || toks[1].Line() != 4 {
		t.Errorf("want lines 1 and 4, got %d and %d", toks[0].Line(), toks[1].Line())
	}
	var lines []int
	Walk(toks[1], func(t Token) bool {
		if _, ok := t.(*Number); ok {
			lines = append(lines, t.Line())
		}
		return true
	})
	if !reflect.DeepEqual(lines, []int{4, 5}) {
		t.Errorf("want numbers on lines 4 and 5, got %v", lines)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		opts []ParseOption
		// errs holds the expected line and message of each error.
		errs []SyntaxError
	}{
		{"colon", ":x", nil, []SyntaxError{{Line: 1, Col: 2, Msg: "':' operator is not defined on any type"}}},
		{"colon-late", "a :x", nil, []SyntaxError{{Line: 1, Col: 4, Msg: "':' operator is not defined on any type"}}},
		{"unclosed-call", "f(1", nil, []SyntaxError{{Line: 1, Col: 4, Msg: "Expected )"}}},
		{"unclosed-group", "(1", nil, []SyntaxError{{Line: 1, Col: 3, Msg: "Expected )"}}},
		{"stray-paren", "1 )", nil, []SyntaxError{{Line: 1, Col: 3, Msg: "unexpected ')'"}}},
		{"stray-comma", "a, b", nil, []SyntaxError{{Line: 1, Col: 2, Msg: "unexpected ','"}}},
		{"leading-comma", "f(,1)", nil, []SyntaxError{{Line: 1, Col: 3, Msg: "Expected argument"}}},
		{"bad-comment", "f(;x)", nil, []SyntaxError{{Line: 1, Col: 4, Msg: "Expected ; or *"}}},
		{"open-comment", ";*abc", nil, []SyntaxError{{Line: 1, Col: 6, Msg: "Expected *;"}}},
		{"continuation", "f(1 \\\\ 2)", nil, []SyntaxError{{Line: 1, Col: 7, Msg: "Expected new line"}}},
		{"double-continuation", "1 \\\\\\\\\n2", nil, []SyntaxError{{Line: 1, Col: 5, Msg: "Expected new line"}}},
		{"invalid-utf8", "\xff\xfe", nil, []SyntaxError{{Line: 1, Col: 1, Msg: "invalid UTF-8 byte 0xff"}}},
		{"invalid-utf8-name", "ab\xff", nil, []SyntaxError{{Line: 1, Col: 3, Msg: "invalid UTF-8 byte 0xff"}}},
		{"invalid-utf8-call", "f(\xe2)", nil, []SyntaxError{{Line: 1, Col: 3, Msg: "invalid UTF-8 byte 0xe2"}}},
		{"unclosed-set", "{1, 2", nil, []SyntaxError{{Line: 1, Col: 6, Msg: "Expected }"}}},
		{"empty-member", "{1,}", nil, []SyntaxError{{Line: 1, Col: 4, Msg: "Expected member"}}},
		{"builder-var", "{x y | x}", nil, []SyntaxError{{Line: 1, Col: 6, Msg: "set-builder variable must be an identifier"}}},
		{"unclosed-builder", "{x | x", nil, []SyntaxError{{Line: 1, Col: 7, Msg: "Expected }"}}},
		{"ragged", "[1, 2; 3]", nil, []SyntaxError{{Line: 1, Col: 9, Msg: "row 2 has 1 columns, want 2"}}},
		{"unclosed-matrix", "[1, 2", nil, []SyntaxError{{Line: 1, Col: 6, Msg: "Expected ]"}}},
		{"empty-cell", "[1, ]", nil, []SyntaxError{{Line: 1, Col: 5, Msg: "Expected member"}}},
		{"empty-rule", "{1} x_n ->", nil, []SyntaxError{{Line: 1, Col: 11, Msg: "sequence rule is empty"}}},
		{"depth", "((((1))))", []ParseOption{MaxDepth(3)}, []SyntaxError{{Line: 1, Col: 4, Msg: "nesting exceeds 3 levels"}}},
		{"strict", "1.2.3", []ParseOption{StrictNumbers()}, []SyntaxError{{Line: 1, Col: 6, Msg: `malformed number "1.2.3"`}}},
		{
			"resync", "f(1\n2)\nok\n:",
			nil,
			[]SyntaxError{
				{Line: 1, Col: 4, Msg: "Expected )"},
				{Line: 2, Col: 2, Msg: "unexpected ')'"},
				{Line: 4, Col: 2, Msg: "':' operator is not defined on any type"},
			},
		},
		{
			"continued-error", "(a \\\\\nb\nc)",
			nil,
			[]SyntaxError{
				{Line: 2, Col: 2, Msg: "Expected )"},
				{Line: 3, Col: 2, Msg: "unexpected ')'"},
			},
		},
		{
			"max-errors", ":a\n:b\n:c",
			[]ParseOption{MaxErrors(2)},
			[]SyntaxError{
				{Line: 1, Col: 2, Msg: "':' operator is not defined on any type"},
				{Line: 2, Col: 2, Msg: "':' operator is not defined on any type"},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Parse(c.src, c.opts...)
			if err == nil {
				t.Fatalf("%q parsed without error as %v", c.src, toks)
			}
			if toks != nil {
				t.Errorf("%q gave tokens %v along with errors", c.src, toks)
			}
			var errs ErrorList
			if !errors.As(err, &errs) {
				t.Fatalf("want ErrorList, got %T", err)
			}
			if len(errs) != len(c.errs) {
				t.Fatalf("%q: want %d errors, got %v", c.src, len(c.errs), errs)
			}
			for i, e := range errs {
				w := c.errs[i]
				if e.Line != w.Line || e.Col != w.Col || e.Msg != w.Msg {
					t.Errorf("%q: error %d: want %d:%d: %s, got %d:%d: %s", c.src, i, w.Line, w.Col, w.Msg, e.Line, e.Col, e.Msg)
				}
				if e.Kind != Undefined {
					t.Errorf("%q: error %d has kind %v", c.src, i, e.Kind)
				}
			}
		})
	}
}

func TestErrorList(t *testing.T) {
	_, err := Parse("a :x\nb := (1\nc := 2")
	if err == nil {
		t.Fatal("no error")
	}
	want := "1:4: Undefined: ':' operator is not defined on any type (and 1 more error)"
	if err.Error() != want {
		t.Errorf("want %q, got %q", want, err.Error())
	}
	var se *SyntaxError
	if !errors.As(err, &se) || se.Line != 1 {
		t.Errorf("errors.As didn't find the first syntax error: %v", se)
	}
	var ie InputError
	if !errors.As(err, &ie) || ie.Pos() != 4 {
		t.Errorf("wrong InputError position: %v", ie)
	}
}

func TestParseDeterministic(t *testing.T) {
	src := "f(x, 2) := x^2 + 1\n{1, 1} a_n -> a_(n-1) + a_(n-2)\nM := [1, 2; 3, 4]\nS := {x | x in N}"
	a, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if !reflect.DeepEqual(TreeOf(a[i]), TreeOf(b[i])) {
			t.Errorf("statement %d differs between parses: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestParseReader(t *testing.T) {
	toks, err := ParseReader(strings.NewReader("x + 1\ny"))
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 2 || toks[0].String() != "(x + 1)" {
		t.Errorf("wrong result %v", toks)
	}
	_, err = ParseReader(iotest.ErrReader(errors.New("boom")))
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("want read error, got %v", err)
	}
	var errs ErrorList
	if errors.As(err, &errs) {
		t.Errorf("read error reported as syntax error")
	}
}

func TestParseLogger(t *testing.T) {
	var buf bytes.Buffer
	l := testLogger(&buf)
	_, err := Parse("x\n:", Logger(l))
	if err == nil {
		t.Fatal("no error")
	}
	s := buf.String()
	if !strings.Contains(s, "statement") || !strings.Contains(s, "syntax error") {
		t.Errorf("missing log events in %q", s)
	}
}

func TestParsingPreset(t *testing.T) {
	preset := ParsingPreset(MaxDepth(2), StrictNumbers())
	if _, err := Parse("((1))", preset); err == nil {
		t.Errorf("preset depth not applied")
	}
	if _, err := Parse("((1))", preset, MaxDepth(5)); err != nil {
		t.Errorf("later option didn't override preset: %v", err)
	}
	if _, err := Parse("1.2.3", preset, MaxDepth(5)); err == nil {
		t.Errorf("preset strictness lost")
	}
	mustPanic(t, "MaxDepth(0)", func() { MaxDepth(0) })
	mustPanic(t, "MaxErrors(-1)", func() { MaxErrors(-1) })
}

func testLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
