package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file...]",
	Short: "Report syntax errors in Fluxion programs",
	Long: `Check parses each file, or standard input if there are none, and prints
only diagnostics. It fails if any input has errors.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringArrayP("expr", "e", nil, "check this text instead of a file (repeatable)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	results, failed, err := s.parseSources(cmd, args)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs had errors", failed, len(results))
	}
	return nil
}
