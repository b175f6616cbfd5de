package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dalnet/ircengine/internal/irc"
)

// Version information - set at build time via ldflags
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

var (
	verbose bool
	envFile string
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ircengine",
	Short: "Line-oriented IRC client",
	Long: `ircengine connects to one IRC server, logs in, joins the configured
channels and relays the conversation between the terminal and the network.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		irc.Version = version
		irc.BuildDate = buildDate
		irc.GitCommit = gitCommit

		if err := godotenv.Load(envFile); err != nil && (cmd.Flags().Changed("env") || !os.IsNotExist(err)) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}

		config := zap.NewProductionConfig()
		if verbose {
			config = zap.NewDevelopmentConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		config.OutputPaths = []string{"stderr"}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), irc.VersionString())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Environment file to load")

	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
