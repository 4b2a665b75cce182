package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var noColor bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "pdbquery",
		Short: "Translate PuppetDB query syntax into native PuppetDB AST queries",
		Long: `pdbquery compiles the short, infix PuppetDB query dialect into the
verbose prefix-form AST that PuppetDB's HTTP API expects, and can run the
compiled query against a live PuppetDB server.`,
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(factsCmd)
	rootCmd.AddCommand(factContentsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
