package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/celve/appcast-updater/internal/config"
	"github.com/celve/appcast-updater/internal/logger"
	"github.com/celve/appcast-updater/internal/service/publisher"
	"github.com/celve/appcast-updater/internal/version"
)

// rootFlags holds the values of the root command flags.
type rootFlags struct {
	// configPath to the configuration YAML file.
	configPath string
	// feedPath overrides the feed location from the configuration.
	feedPath string
	// releaseTag overrides the RELEASE_TAG environment variable.
	releaseTag string
	// releaseDate overrides the RELEASE_DATE environment variable.
	releaseDate string
	// logLevel is the minimum level of printed diagnostics.
	logLevel string
}

// newRootCommand builds the base command publishing a release into the appcast.
func newRootCommand() *cobra.Command {
	flags := new(rootFlags)

	rootCmd := &cobra.Command{
		Use:   "appcast-updater",
		Short: "Add a release to the appcast update feed.",
		Long: `Inserts a new item for the release into the appcast feed and keeps the
four most recent previous items.

The release tag is read from ` + config.EnvReleaseTag + ` and the optional ISO-8601
release timestamp from ` + config.EnvReleaseDate + `. Without a timestamp the current
local time is used. Flags override the environment.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(flags.logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", flags.logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			options := &publisher.Options{
				ConfigPath:  flags.configPath,
				FeedPath:    flags.feedPath,
				ReleaseTag:  valueOrEnv(cmd, "tag", flags.releaseTag, config.EnvReleaseTag),
				ReleaseDate: valueOrEnv(cmd, "date", flags.releaseDate, config.EnvReleaseDate),
			}

			_, err := publisher.Run(cmd.Context(), options)

			return err
		},
	}

	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&flags.configPath, "config", "c", "", "path to configuration file (default "+config.DefaultConfigFilename+" if present)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	rootCmd.Flags().StringVarP(&flags.feedPath, "feed", "f", "", "path to the appcast feed (overrides configuration)")
	rootCmd.Flags().StringVarP(&flags.releaseTag, "tag", "t", "", "release tag (overrides "+config.EnvReleaseTag+")")
	rootCmd.Flags().
		StringVarP(&flags.releaseDate, "date", "d", "", "ISO-8601 release timestamp (overrides "+config.EnvReleaseDate+")")

	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

// Execute runs the appcast-updater CLI and exits with non-zero status on error.
func Execute() {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := newRootCommand().ExecuteContext(ctx)

	stop()

	if err != nil {
		logger.Error(ctx, "Error: ", err)
		os.Exit(1)
	}
}

// valueOrEnv prefers an explicitly set flag over the environment variable.
func valueOrEnv(cmd *cobra.Command, flag, value, env string) string {
	if cmd.Flags().Changed(flag) {
		return value
	}

	return os.Getenv(env)
}
