package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/bootc/pdbquery"
	"github.com/bootc/pdbquery/internal/cliui"
	"github.com/bootc/pdbquery/internal/config"
)

var (
	factsNames   []string
	factsRaw     bool
	factsJSON    bool
	factsTable   bool
	factsVerbose bool
	factsYes     bool
)

func init() {
	factsCmd.Flags().StringSliceVar(&factsNames, "fact", nil, "Restrict to specific fact names; wrap in /.../ for a regex match. Repeatable.")
	factsCmd.Flags().BoolVar(&factsRaw, "raw", false, "Print the raw PuppetDB API response instead of grouping by node")
	factsCmd.Flags().BoolVar(&factsJSON, "json", false, "Print grouped results as JSON")
	factsCmd.Flags().BoolVar(&factsTable, "table", false, "Print a flat NODE/FACT/VALUE table instead of grouping by node")
	factsCmd.Flags().BoolVar(&factsVerbose, "verbose", false, "Enable verbose request logging")
	factsCmd.Flags().BoolVarP(&factsYes, "yes", "y", false, "Skip the confirmation prompt for unfiltered queries")
}

var factsCmd = &cobra.Command{
	Use:   "facts [query]",
	Short: "Query facts for nodes matching a query",
	Long:  "Compiles query under mode \"facts\" and calls PuppetDB's facts endpoint, grouping results by node.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := ""
		if len(args) == 1 {
			source = args[0]
		}

		if err := confirmUnfiltered(source, factsNames, factsYes); err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprint(os.Stderr, cliui.ConfigError(err.Error(), nil, noColor))
			os.Exit(1)
		}

		log := newLogger(factsVerbose)
		defer log.Sync()

		pdb, err := buildClient(cfg, log)
		if err != nil {
			return fmt.Errorf("build puppetdb client: %w", err)
		}

		result, raw, err := pdbquery.QueryFacts(context.Background(), pdb, source, factsNames, factsRaw)
		if err != nil {
			printCompileError(err)
			os.Exit(1)
		}

		if factsRaw {
			fmt.Println(string(raw))
			return nil
		}

		return renderFactsResult(result, factsJSON, factsTable)
	},
}

// confirmUnfiltered warns before issuing a query with no node selector and
// no fact-name filter, which would return every fact for every node known
// to PuppetDB.
func confirmUnfiltered(source string, facts []string, yes bool) error {
	if source != "" || len(facts) > 0 || yes {
		return nil
	}

	fmt.Fprint(os.Stderr, cliui.Warning("this query has no filter clause and will return facts for every node", nil, noColor))

	confirmed := false
	prompt := &survey.Confirm{
		Message: "Continue anyway?",
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return err
	}
	if !confirmed {
		return fmt.Errorf("aborted")
	}
	return nil
}

func renderFactsResult(result pdbquery.FactsResult, asJSON, asTable bool) error {
	if asJSON {
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		fmt.Println(string(b))
		return nil
	}

	nodes := make([]string, 0, len(result))
	for node := range result {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	if asTable {
		ft := cliui.NewFactTable(os.Stdout, noColor)
		for _, node := range nodes {
			facts := result[node]
			names := make([]string, 0, len(facts))
			for name := range facts {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				ft.AddRow(node, name, facts[name].String())
			}
		}
		ft.Render()
		return nil
	}

	for _, node := range nodes {
		cliui.Header(os.Stdout, node, noColor)
		kv := cliui.NewKeyValueTable(os.Stdout, noColor)
		facts := result[node]
		names := make([]string, 0, len(facts))
		for name := range facts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			kv.AddRow(name, facts[name].String())
		}
		kv.Render()
		fmt.Println()
	}
	return nil
}
