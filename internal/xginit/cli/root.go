// Package cli defines the xginit command tree. Each subcommand loads the
// shared configuration, builds the platform layer, and delegates to the
// application; the commands themselves carry no hardware logic.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"xginit/internal/xginit/app"
	"xginit/pkg/config"
	"xginit/pkg/logger"
	"xginit/pkg/platform"
)

var (
	cfg        *config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "xginit",
	Short: "10GbE FPGA core bring-up tool",
	Long: "xginit initializes the 10GbE FPGA core: it sequences the core's reset line,\n" +
		"pushes PHY configuration over MDIO, and programs the MAC address stored in\n" +
		"the board's EEPROM. It also queries and provisions that stored address.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var path string
		var err error
		cfg, path, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}

		level, err := logger.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		if cfg.Logging.Output == "stderr" {
			logger.SetOutput(os.Stderr)
		}

		logger.Debug("configuration loaded", "path", path)
		return nil
	},
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "",
		"Path to configuration file (searches common locations if not specified)")
	markFlagFilename(flags, "config")

	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newStoreCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func markFlagFilename(flags *pflag.FlagSet, name string) {
	if f := flags.Lookup(name); f != nil {
		f.Annotations = map[string][]string{cobra.BashCompFilenameExt: {"yml", "yaml"}}
	}
}

// newApp assembles the application over the real platform. cfg is loaded by
// PersistentPreRunE before any subcommand runs.
func newApp() *app.App {
	return app.New(cfg, platform.NewPlatform())
}
