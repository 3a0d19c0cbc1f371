package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/fluxion"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] [file...]",
	Short: "Parse Fluxion programs and print their tokens",
	Long: `Parse reads each file, or standard input if there are none, and prints the
token tree of every statement. A file named - is standard input.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringArrayP("expr", "e", nil, "parse this text instead of a file (repeatable)")
	parseCmd.Flags().String("format", "text", "output format (text|json|msgpack)")
}

// source is one input. If path is not empty, text is read from it when the
// source is parsed.
type source struct {
	name string
	path string
	text string
}

type result struct {
	src  source
	toks []fluxion.Token
	err  error
}

// collectSources lists the inputs named by arguments and -e flags. With
// neither, the input is stdin.
func collectSources(args, exprs []string, stdin io.Reader) ([]source, error) {
	var srcs []source
	for i, e := range exprs {
		srcs = append(srcs, source{name: "-e#" + strconv.Itoa(i+1), text: e})
	}
	readStdin := len(args) == 0 && len(exprs) == 0
	for _, a := range args {
		if a == "-" {
			readStdin = true
			continue
		}
		srcs = append(srcs, source{name: a, path: a})
	}
	if readStdin {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		srcs = append(srcs, source{name: "<stdin>", text: string(b)})
	}
	return srcs, nil
}

// parseAll parses sources concurrently. Results are in the order of srcs.
// Syntax errors are in the results; the error is for failures to read.
func parseAll(ctx context.Context, srcs []source, jobs int, opts ...fluxion.ParseOption) ([]result, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]result, len(srcs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(srcs))))
	for i, s := range srcs {
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if s.path != "" {
				b, err := os.ReadFile(s.path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", s.name, err)
				}
				s.text = string(b)
			}
			toks, err := fluxion.Parse(s.text, opts...)
			results[i] = result{src: s, toks: toks, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// parseSources collects and parses the inputs for a command, reporting syntax
// errors. It returns the results and the number of inputs that had errors.
func (s *session) parseSources(cmd *cobra.Command, args []string) ([]result, int, error) {
	exprs, err := cmd.Flags().GetStringArray("expr")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get expr flag: %w", err)
	}
	srcs, err := collectSources(args, exprs, cmd.InOrStdin())
	if err != nil {
		return nil, 0, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := parseAll(ctx, srcs, s.cfg.Jobs, s.cfg.parseOptions(s.log))
	if err != nil {
		return nil, 0, err
	}
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			s.log.Info("parse failed", "source", r.src.name, "error", r.err)
			s.diag.report(r.src.name, r.src.text, r.err)
			continue
		}
		s.log.Info("parsed", "source", r.src.name, "statements", len(r.toks))
	}
	return results, failed, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "text", "json", "msgpack":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	results, failed, err := s.parseSources(cmd, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.err != nil {
			continue
		}
		if err := writeTokens(out, format, r, len(results) > 1); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs had errors", failed, len(results))
	}
	return nil
}

// writeTokens prints the statements of one input. In text format, each
// statement is on its own line after its line number, and named says whether
// to print the input's name first.
func writeTokens(w io.Writer, format string, r result, named bool) error {
	switch format {
	case "json":
		return fluxion.EncodeJSON(w, r.toks)
	case "msgpack":
		return fluxion.EncodeMsgpack(w, r.toks)
	}
	if named {
		if _, err := fmt.Fprintf(w, "# %s\n", r.src.name); err != nil {
			return err
		}
	}
	for _, t := range r.toks {
		if _, err := fmt.Fprintf(w, "%d\t%v\t%v\n", t.Line(), t.Kind(), t); err != nil {
			return err
		}
	}
	return nil
}
