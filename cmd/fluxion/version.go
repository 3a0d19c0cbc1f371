package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// version is replaced at link time with -X main.version=...
var version = "0.1.0-dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the fluxion version",
	RunE: func(cmd *cobra.Command, args []string) error {
		colorFlag, err := cmd.Flags().GetString("color")
		if err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
		c := color.New(color.FgYellow, color.Bold)
		if colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout)) {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "fluxion %s\n", c.Sprint(version))
		if bi, ok := debug.ReadBuildInfo(); ok {
			fmt.Fprintf(out, "built with %s\n", bi.GoVersion)
		}
		return nil
	},
}
