package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Print the manifest sections generated from the contributions file",
	Long: `Reads the contributions file and prints the activationEvents and contributes
sections. With --merge, the sections are written into an existing package.json,
keeping every other field.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		mergePath, _ := cmd.Flags().GetString("merge")
		write, _ := cmd.Flags().GetBool("write")

		_, m, err := loadContributions()
		if err != nil {
			return err
		}

		var doc any = m
		if mergePath != "" {
			data, err := os.ReadFile(mergePath)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", mergePath, err)
			}
			var pkg map[string]any
			if err := json.Unmarshal(data, &pkg); err != nil {
				return fmt.Errorf("failed to parse %s: %w", mergePath, err)
			}
			merged, err := m.MergeInto(pkg)
			if err != nil {
				return err
			}
			doc = merged
		}

		var out []byte
		switch format {
		case "json":
			out, err = json.MarshalIndent(doc, "", "  ")
			out = append(out, '\n')
		case "yaml":
			out, err = yaml.Marshal(doc)
		default:
			return fmt.Errorf("unknown format %q (want json or yaml)", format)
		}
		if err != nil {
			return err
		}

		if write {
			if mergePath == "" {
				return fmt.Errorf("--write requires --merge")
			}
			if err := os.WriteFile(mergePath, out, 0o644); err != nil {
				return err
			}
			app.logger.Info("manifest merged", "path", mergePath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)
	manifestCmd.Flags().String("format", "json", "Output format: json or yaml")
	manifestCmd.Flags().String("merge", "", "package.json to merge the manifest into")
	manifestCmd.Flags().Bool("write", false, "Write the merged document back instead of printing it")
}
