package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/bootc/pdbquery"
	"github.com/bootc/pdbquery/compiler/evaluator"
	"github.com/bootc/pdbquery/compiler/lexer"
	"github.com/bootc/pdbquery/compiler/parser"
	"github.com/bootc/pdbquery/internal/cliui"
)

var (
	compileMode   string
	compileJSON   bool
	compilePretty bool
)

func init() {
	compileCmd.Flags().StringVar(&compileMode, "mode", "nodes", "Target mode: nodes, facts, resources, or none")
	compileCmd.Flags().BoolVar(&compileJSON, "json", false, "Print the PuppetDB AST as JSON")
	compileCmd.Flags().BoolVar(&compilePretty, "pretty", false, "Pretty-print JSON output (implies --json)")
}

var compileCmd = &cobra.Command{
	Use:   "compile <query>",
	Short: "Compile a query into PuppetDB's native AST form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := parseMode(compileMode)
		if err != nil {
			fmt.Fprint(os.Stderr, cliui.ConfigError(err.Error(), []string{"Valid modes: nodes, facts, resources, none"}, noColor))
			os.Exit(1)
		}

		value, err := pdbquery.Compile(args[0], mode)
		if err != nil {
			printCompileError(err)
			os.Exit(1)
		}

		if compileJSON || compilePretty {
			var b []byte
			if value == nil {
				b = []byte("null")
			} else if compilePretty {
				b, err = json.MarshalIndent(value, "", "  ")
			} else {
				b, err = json.Marshal(value)
			}
			if err != nil {
				return fmt.Errorf("render JSON: %w", err)
			}
			fmt.Println(string(b))
			return nil
		}

		if value == nil {
			fmt.Println("null")
			return nil
		}
		fmt.Printf("%+# v\n", pretty.Formatter(value))
		return nil
	},
}

func parseMode(s string) (evaluator.Mode, error) {
	switch evaluator.Mode(s) {
	case evaluator.ModeNodes, evaluator.ModeFacts, evaluator.ModeResources, evaluator.ModeNone:
		return evaluator.Mode(s), nil
	default:
		return "", fmt.Errorf("invalid mode %q", s)
	}
}

func printCompileError(err error) {
	switch e := err.(type) {
	case lexer.LexError:
		fmt.Fprint(os.Stderr, cliui.CompileError(e.Error(), e.Offset(), noColor))
	case parser.ParseError:
		fmt.Fprint(os.Stderr, cliui.CompileError(e.Error(), e.Location.Offset, noColor))
	case evaluator.EvalError:
		fmt.Fprint(os.Stderr, cliui.CompileError(e.Error(), -1, noColor))
	default:
		fmt.Fprint(os.Stderr, cliui.CompileError(err.Error(), -1, noColor))
	}
}
