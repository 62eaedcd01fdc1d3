package app

import (
	"encoding/json"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

func init() { //nolint: gochecknoinits
	configDumpCmd.Flags().Bool("json", false, "Print JSON instead of TOML")
	configCmd.AddCommand(configDumpCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the effective configuration after env overrides and defaults",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		asJSON, err := cmd.Flags().GetBool("json")
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")

			return enc.Encode(cfg)
		}

		return toml.NewEncoder(out).Encode(cfg)
	},
}
