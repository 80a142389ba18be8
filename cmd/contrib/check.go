package main

import (
	"fmt"

	"github.com/aretw0/contrib/pkg/schema"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the contributions file for consistency",
	Long:  `Reports missing or duplicate command ids, menu items without a command, malformed when-clauses and unknown context types.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := schema.Load(app.cfg.Contributions)
		if err != nil {
			return err
		}
		if err := f.Validate(); err != nil {
			for _, e := range schema.ValidationErrors(err) {
				fmt.Fprintf(cmd.ErrOrStderr(), "  - %v\n", e)
			}
			return fmt.Errorf("%s is invalid", app.cfg.Contributions)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid! ✅\n", app.cfg.Contributions)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
