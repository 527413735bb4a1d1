package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/ludo-technologies/smellscan/internal/constants"
	"github.com/spf13/cobra"
)

var ruleDescriptions = map[string]string{
	constants.RuleFunctionLength:    "function body longer than max_function_lines",
	constants.RuleComplexCondition:  "if-condition of max_condition_chars or more",
	constants.RuleNestedLoops:       "for loop inside another for loop",
	constants.RuleRepeatedCode:      "span of min_repeated_chars repeated later in the document",
	constants.RuleTooManyParameters: "parameter list longer than max_parameters",
	constants.RuleUnhandledPromise:  "call result assigned without await, .then or .catch",
	constants.RuleLargeFile:         "document longer than max_file_lines",
	constants.RuleLargeComponent:    "component body longer than max_component_lines",
	constants.RuleDeepNesting:       "markup_depth or more tags in sequence",
	constants.RuleInlineStyles:      "inline style={...} attribute",
}

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the pattern rules in scan order",
		Long: `List every pattern rule in the order the scanner runs them.

Rule names can be passed to --disable or listed under [rules] disabled in the
config file.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RULE\tDETECTS")
			for _, name := range constants.RuleNames {
				fmt.Fprintf(w, "%s\t%s\n", name, ruleDescriptions[name])
			}
			w.Flush()
		},
	}
}
