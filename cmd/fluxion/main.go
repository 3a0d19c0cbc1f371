package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zephyrtronium/fluxion"
)

var rootCmd = &cobra.Command{
	Use:   "fluxion",
	Short: "Parse Fluxion math notation",
	Long: `fluxion parses programs written in Fluxion, a line-oriented notation for
expressions, sets, matrices, and recurrences, and reports syntax errors.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
	addGlobalFlags(rootCmd)
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addGlobalFlags registers the flags every command shares.
func addGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("config", "", "configuration file (.toml, .yaml, or .yml)")
	pf.String("color", "auto", "colorize diagnostics (auto|on|off)")
	pf.String("log-level", "warn", "log level (debug|info|warn|error)")
	pf.String("log-file", "", "also write JSON logs to this file")
	pf.Int("max-errors", fluxion.DefaultMaxErrors, "errors per input before giving up on it")
	pf.Int("max-depth", fluxion.DefaultMaxDepth, "maximum nesting of groups, calls, sets, and matrices")
	pf.Bool("strict", false, "reject number literals with several decimal points")
	pf.IntP("jobs", "j", 0, "inputs to parse at once (0 means GOMAXPROCS)")
}

// session holds what a command needs after reading flags and configuration.
type session struct {
	cfg      Config
	log      *slog.Logger
	diag     *diagPrinter
	closeLog func() error
}

func newSession(cmd *cobra.Command) (*session, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.overrideFlags(cmd); err != nil {
		return nil, err
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log, closeLog, err := newLogger(cmd.ErrOrStderr(), level, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	useColor := cfg.Color == "on" || (cfg.Color == "auto" && isTerminal(os.Stderr))
	s := &session{
		cfg:      cfg,
		log:      log.With("command", cmd.Name()),
		diag:     newDiagPrinter(cmd.ErrOrStderr(), useColor),
		closeLog: closeLog,
	}
	s.log.Debug("configured", "config", path, "max_errors", cfg.MaxErrors, "max_depth", cfg.MaxDepth, "strict", cfg.Strict)
	return s, nil
}

func (s *session) close() {
	if err := s.closeLog(); err != nil {
		s.diag.errorf("closing log file: %v", err)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
