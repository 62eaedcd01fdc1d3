package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inheritx/hr-portal/internal/db"
	"github.com/inheritx/hr-portal/internal/seed"
)

func init() { //nolint: gochecknoinits
	seedCmd.Flags().Bool("credentials", true, "Also seed the demo credentials")
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the permission catalog, default roles and demo credentials",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		withCredentials, err := cmd.Flags().GetBool("credentials")
		if err != nil {
			return err
		}

		conn, err := db.Open(cfg)
		if err != nil {
			return err
		}

		res, err := seed.Run(background(cmd), conn, cfg.OrganizationID, withCredentials)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "permissions: %d, roles: %d, credentials: %d\n",
			res.Permissions, res.Roles, res.Credentials)

		return err
	},
}
