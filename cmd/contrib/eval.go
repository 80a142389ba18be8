package main

import (
	"fmt"

	"github.com/aretw0/contrib/pkg/schema"
	"github.com/aretw0/contrib/pkg/when"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <clause>",
	Short: "Evaluate a when-clause against context values",
	Long: `Parses a when-clause and evaluates it against the values given with --set.
Values are read as JSON when possible (true, 3, ["a"]) and as strings otherwise.
Keys declared in the contributions file are checked against their type.`,
	Example: `  contrib eval 'editorLangId == go && !editorReadonly' --set editorLangId=go`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs, _ := cmd.Flags().GetStringArray("set")
		values, err := parseValues(pairs)
		if err != nil {
			return err
		}

		sc, err := optionalSchema()
		if err != nil {
			return err
		}
		if err := schema.Validate(sc, values); err != nil {
			return err
		}

		dnf, err := when.Parse(args[0])
		if err != nil {
			return err
		}
		result, err := dnf.EvalValues(values)
		if err != nil {
			return err
		}

		app.logger.Debug("clause evaluated", "clause", dnf.String(), "atoms", dnf.Atoms())
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringArray("set", nil, "Context value as key=value (repeatable)")
}
