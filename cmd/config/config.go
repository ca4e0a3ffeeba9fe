// Package config implements the config command for initializing and updating branch-cleaner configuration.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/alan/branch-cleaner/cmd"
	"github.com/alan/branch-cleaner/internal/commands"
	internalconfig "github.com/alan/branch-cleaner/internal/config"
	"github.com/alan/branch-cleaner/internal/gitrepo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// settings are the values given on the command line. Only flags the user
// actually set are applied to the file.
type settings struct {
	owner         string
	repo          string
	remote        string
	protected     []string
	bufferDays    int
	includeMerged bool
	includeClosed bool
	changed       func(flag string) bool
}

// NewConfigCmd creates and returns the config command
func NewConfigCmd(
	globalConfigFile *string,
	repoPath *string,
	loadConfig func(string) (*cmd.Config, error),
	saveConfig func(string, *cmd.Config) error,
	logger commands.LoggerProvider,
) *cobra.Command {
	s := &settings{}

	cobraCmd := &cobra.Command{
		Use:   "config",
		Short: "Initialize or update the .branch-cleaner.yaml configuration file",
		Long: `Config writes .branch-cleaner.yaml with the GitHub owner, repository,
protected branches and deletion defaults used by cleanup and status.

When run inside a git repository, owner and repository are detected from the
remote URL (origin unless --remote is given). Values already in the file are
kept unless the matching flag is passed.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			s.changed = cobraCmd.Flags().Changed
			return runConfig(cobraCmd.OutOrStdout(), *globalConfigFile, *repoPath, s, loadConfig, saveConfig, resolveLogger(logger))
		},
	}

	addConfigFlags(cobraCmd, s)
	return cobraCmd
}

// addConfigFlags adds all flags to the config command
func addConfigFlags(cobraCmd *cobra.Command, s *settings) {
	cobraCmd.Flags().StringVarP(&s.owner, "owner", "o", "", "GitHub owner or organization (auto-detected from git if available)")
	cobraCmd.Flags().StringVarP(&s.repo, "repo", "r", "", "GitHub repository name (auto-detected from git if available)")
	cobraCmd.Flags().StringVar(&s.remote, "remote", "", "Remote used to detect owner/repo (default \"origin\")")
	cobraCmd.Flags().StringSliceVar(&s.protected, "protected", nil, "Branch names that are never deleted, in addition to main, master, develop and dev")
	cobraCmd.Flags().IntVar(&s.bufferDays, "buffer-days", cmd.DefaultBufferDays, "Days subtracted from the oldest local commit when listing pull requests")
	cobraCmd.Flags().BoolVar(&s.includeMerged, "merged", true, "Delete branches whose pull request was merged by default")
	cobraCmd.Flags().BoolVar(&s.includeClosed, "closed", false, "Delete branches whose pull request was closed without merge by default")
}

func resolveLogger(provider commands.LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	if logger := provider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

func runConfig(
	out io.Writer,
	configFile, repoPath string,
	s *settings,
	loadConfig func(string) (*cmd.Config, error),
	saveConfig func(string, *cmd.Config) error,
	logger *zap.Logger,
) error {
	isUpdate := internalconfig.Exists(configFile)

	config, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	applySettings(config, s)

	if config.Owner == "" || config.Repo == "" {
		detected, err := detectRemote(repoPath, config.RemoteOrDefault(), logger)
		if err != nil {
			logger.Debug("Remote detection failed", zap.Error(err))
		} else {
			if config.Owner == "" {
				config.Owner = detected.Owner
				logger.Info("Auto-detected owner", zap.String("owner", config.Owner))
			}
			if config.Repo == "" {
				config.Repo = detected.Repository
				logger.Info("Auto-detected repository", zap.String("repo", config.Repo))
			}
		}
	}

	if config.Owner == "" {
		return fmt.Errorf("owner is required (use --owner flag or run from a git repository)")
	}
	if config.Repo == "" {
		return fmt.Errorf("repository is required (use --repo flag or run from a git repository)")
	}
	if err := internalconfig.Validate(config); err != nil {
		return err
	}

	if err := saveConfig(configFile, config); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	displayConfigSuccess(out, configFile, config, isUpdate)
	return nil
}

// applySettings copies every flag the user set onto config
func applySettings(config *cmd.Config, s *settings) {
	changed := s.changed
	if changed == nil {
		changed = func(string) bool { return false }
	}

	if s.owner != "" {
		config.Owner = s.owner
	}
	if s.repo != "" {
		config.Repo = s.repo
	}
	if s.remote != "" {
		config.Remote = s.remote
	}
	if changed("protected") {
		config.ProtectedBranches = s.protected
	}
	if changed("buffer-days") {
		config.BufferDays = s.bufferDays
	}
	if changed("merged") {
		config.IncludeMerged = s.includeMerged
	}
	if changed("closed") {
		config.IncludeClosed = s.includeClosed
	}
}

func detectRemote(repoPath, remote string, logger *zap.Logger) (gitrepo.RemoteURL, error) {
	repository, err := gitrepo.Open(repoPath, logger)
	if err != nil {
		return gitrepo.RemoteURL{}, err
	}
	return repository.RemoteURL(remote)
}

// displayConfigSuccess shows the configuration success message
func displayConfigSuccess(out io.Writer, configFile string, config *cmd.Config, isUpdate bool) {
	action := "initialized"
	if isUpdate {
		action = "updated"
	}
	fmt.Fprintf(out, "Successfully %s %s with:\n", action, configFile)
	fmt.Fprintf(out, "  Owner: %s\n", config.Owner)
	fmt.Fprintf(out, "  Repository: %s\n", config.Repo)
	fmt.Fprintf(out, "  Remote: %s\n", config.RemoteOrDefault())
	fmt.Fprintf(out, "  Protected Branches: %s\n", strings.Join(config.ProtectedBranches, ", "))
	fmt.Fprintf(out, "  Buffer Days: %d\n", config.BufferDays)
	fmt.Fprintf(out, "  Delete Merged: %t\n", config.IncludeMerged)
	fmt.Fprintf(out, "  Delete Closed: %t\n", config.IncludeClosed)
}
