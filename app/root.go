// Package app implements the main application commands.
package app

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inheritx/hr-portal/internal/config"
	"github.com/inheritx/hr-portal/internal/logger"
)

// envPrefix prefixes the environment variables bound to flags, e.g. HR_PORTAL_CONFIG.
const envPrefix = "HR_PORTAL"

const (
	keyConfig = "config"
	keyDev    = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "hr-portal",
	Short: "HR Portal is a web application for employee self service and HR administration",
	Long: `HR Portal is a web application for employee self service and HR administration
with role based access: sessions, roles, permissions and gated views.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().String(keyConfig, "./etc/", "Directory holding main.toml")
	rootCmd.PersistentFlags().Bool(keyDev, false, "Enable dev mode")

	_ = viper.BindPFlag(keyConfig, rootCmd.PersistentFlags().Lookup(keyConfig))
	_ = viper.BindPFlag(keyDev, rootCmd.PersistentFlags().Lookup(keyDev))

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads the config selected by --config or HR_PORTAL_CONFIG and
// initialises logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.ReadConfig(withSlash(viper.GetString(keyConfig)))
	if err != nil {
		return nil, err
	}

	if viper.GetBool(keyDev) {
		cfg.DevMode = true
	}

	if err = logger.Init(cfg.Log); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func withSlash(dir string) string {
	if dir == "" || strings.HasSuffix(dir, "/") {
		return dir
	}

	return dir + "/"
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
