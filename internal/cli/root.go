package cli

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/david50407/obs-studio/internal/config"
	"github.com/david50407/obs-studio/internal/logger"
)

var (
	buildVersion string

	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log hclog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "obsmod",
	Short: "Locate, load and inspect OBS modules",
	Long: `obsmod drives the module core: it finds module binaries in the configured
search roots, runs their entry points, and reports the capability types they
register.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return setup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("OBS_CONFIG_PATH"), "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Override the configured log format (text, json)")
}

func setup() error {
	if err := config.Load(configPath); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cfg = config.Get()

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	log = logger.Init(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Color:  cfg.Logging.Color,
	})
	if path := config.GetConfigManager().ConfigPath(); path != "" {
		log.Debug("configuration loaded", "path", path)
	}
	return nil
}

// Execute runs the root command with the build version injected via ldflags.
func Execute(version string) error {
	buildVersion = version
	return rootCmd.Execute()
}
