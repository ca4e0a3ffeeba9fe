// package main is the entry point for the branch-cleaner tool
package main

import (
	"os"

	"github.com/alan/branch-cleaner/cmd"
	"github.com/alan/branch-cleaner/cmd/cleanup"
	configcmd "github.com/alan/branch-cleaner/cmd/config"
	"github.com/alan/branch-cleaner/cmd/status"
	"github.com/alan/branch-cleaner/internal/commands"
	"github.com/alan/branch-cleaner/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var configFile string
	var repoPath string
	var logLevel string
	var logFormat string

	rootCmd := &cobra.Command{
		Use:   "branch-cleaner",
		Short: "Delete local git branches whose GitHub pull request was merged or closed",
		Long: `branch-cleaner matches every local branch to its GitHub pull request,
reports the state of each one and deletes the branches whose pull request
was merged or closed. Settings are kept in a YAML configuration file.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := commands.NewLogger(logLevel, logFormat)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(logger)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = zap.L().Sync()
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", cmd.DefaultConfigFile, "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&repoPath, "repo-path", ".", "Path inside the local git repository")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "f", string(cmd.LogFormatConsole), "Log format (console, json)")

	// zap.L is replaced once the persistent flags are parsed
	logger := commands.LoggerProvider(zap.L)

	rootCmd.AddCommand(configcmd.NewConfigCmd(&configFile, &repoPath, config.LoadConfig, config.SaveConfig, logger))
	rootCmd.AddCommand(status.NewStatusCmd(&configFile, &repoPath, config.LoadConfig, logger, commands.GitHubService))
	rootCmd.AddCommand(cleanup.NewCleanupCmd(&configFile, &repoPath, config.LoadConfig, logger, commands.GitHubService))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
