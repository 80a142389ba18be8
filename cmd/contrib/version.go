package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/contrib"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of contrib",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "contrib version %s\n", strings.TrimSpace(contrib.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
