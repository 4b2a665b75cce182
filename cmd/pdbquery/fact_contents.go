package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bootc/pdbquery"
	"github.com/bootc/pdbquery/internal/cliui"
	"github.com/bootc/pdbquery/internal/config"
)

var (
	factContentsPaths   []string
	factContentsRaw     bool
	factContentsJSON    bool
	factContentsTable   bool
	factContentsVerbose bool
	factContentsYes     bool
)

func init() {
	factContentsCmd.Flags().StringSliceVar(&factContentsPaths, "path", nil, "Restrict to specific dotted fact paths, e.g. os.family. Repeatable.")
	factContentsCmd.Flags().BoolVar(&factContentsRaw, "raw", false, "Print the raw PuppetDB API response instead of grouping by node")
	factContentsCmd.Flags().BoolVar(&factContentsJSON, "json", false, "Print grouped results as JSON")
	factContentsCmd.Flags().BoolVar(&factContentsTable, "table", false, "Print a flat NODE/FACT/VALUE table instead of grouping by node")
	factContentsCmd.Flags().BoolVar(&factContentsVerbose, "verbose", false, "Enable verbose request logging")
	factContentsCmd.Flags().BoolVarP(&factContentsYes, "yes", "y", false, "Skip the confirmation prompt for unfiltered queries")
}

var factContentsCmd = &cobra.Command{
	Use:   "fact-contents [query]",
	Short: "Query structured fact paths for nodes matching a query",
	Long:  "Compiles query under mode \"facts\" and calls PuppetDB's fact_contents endpoint, grouping results by node and dotted path.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := ""
		if len(args) == 1 {
			source = args[0]
		}

		if err := confirmUnfiltered(source, factContentsPaths, factContentsYes); err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprint(os.Stderr, cliui.ConfigError(err.Error(), nil, noColor))
			os.Exit(1)
		}

		log := newLogger(factContentsVerbose)
		defer log.Sync()

		pdb, err := buildClient(cfg, log)
		if err != nil {
			return fmt.Errorf("build puppetdb client: %w", err)
		}

		result, raw, err := pdbquery.QueryFactContents(context.Background(), pdb, source, factContentsPaths, factContentsRaw)
		if err != nil {
			printCompileError(err)
			os.Exit(1)
		}

		if factContentsRaw {
			fmt.Println(string(raw))
			return nil
		}

		return renderFactsResult(result, factContentsJSON, factContentsTable)
	},
}
