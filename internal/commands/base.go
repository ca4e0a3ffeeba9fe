package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/alan/branch-cleaner/cmd"
	"github.com/alan/branch-cleaner/internal/github"
	"github.com/alan/branch-cleaner/internal/gitrepo"
	"github.com/alan/branch-cleaner/internal/matcher"
	"go.uber.org/zap"
)

// tokenEnvVars are checked in order before the configured token
var tokenEnvVars = []string{"GH_TOKEN", "GITHUB_TOKEN", "GITHUB_API_TOKEN"}

// LoggerProvider supplies the logger built from the root flags
type LoggerProvider func() *zap.Logger

// ServiceFactory builds the pull request service for owner/repo
type ServiceFactory func(ctx context.Context, token, owner, repo string, logger *zap.Logger) matcher.PullRequestService

// GitHubService is the default ServiceFactory
func GitHubService(ctx context.Context, token, owner, repo string, logger *zap.Logger) matcher.PullRequestService {
	return github.NewClient(ctx, token).
		WithRepository(owner, repo).
		WithLogger(logger)
}

// BaseCommand provides common fields and initialization for all commands
type BaseCommand struct {
	ConfigFile *string
	RepoPath   *string
	LoadConfig func(string) (*cmd.Config, error)
	Logger     LoggerProvider
	// Remote overrides the configured remote when non-empty
	Remote string
	// NewService defaults to GitHubService
	NewService ServiceFactory

	Context    context.Context
	Config     *cmd.Config
	Repository *gitrepo.Repository
	Owner      string
	Repo       string
	Service    matcher.PullRequestService
}

// Init loads configuration, opens the local repository, resolves owner/repo
// and builds the GitHub client. Any failure here is fatal to the run.
func (bc *BaseCommand) Init(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	bc.Context = ctx
	logger := bc.Log()

	config, err := bc.LoadConfig(*bc.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	bc.Config = config

	repoPath := "."
	if bc.RepoPath != nil && *bc.RepoPath != "" {
		repoPath = *bc.RepoPath
	}
	repository, err := gitrepo.Open(repoPath, logger)
	if err != nil {
		return err
	}
	bc.Repository = repository

	remote := bc.Remote
	if remote == "" {
		remote = config.RemoteOrDefault()
	}
	bc.Owner, bc.Repo, err = ResolveCoordinates(config, repository, remote)
	if err != nil {
		return err
	}

	token, err := ResolveToken(config)
	if err != nil {
		return err
	}

	newService := bc.NewService
	if newService == nil {
		newService = GitHubService
	}
	bc.Service = newService(ctx, token, bc.Owner, bc.Repo, logger)

	logger.Debug("Command initialized",
		zap.String("owner", bc.Owner), zap.String("repo", bc.Repo), zap.String("remote", remote))
	return nil
}

// Log returns the command logger, a no-op logger when none is configured
func (bc *BaseCommand) Log() *zap.Logger {
	if bc.Logger == nil {
		return zap.NewNop()
	}
	if logger := bc.Logger(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

// ResolveToken returns the first non-empty token from GH_TOKEN,
// GITHUB_TOKEN, GITHUB_API_TOKEN or the configured github_token.
func ResolveToken(config *cmd.Config) (string, error) {
	for _, name := range tokenEnvVars {
		if token := os.Getenv(name); token != "" {
			return token, nil
		}
	}
	if config != nil && config.GitHubToken != "" {
		return config.GitHubToken, nil
	}
	return "", ErrMissingToken
}

// ResolveCoordinates prefers owner/repo from config and fills whatever is
// missing from the remote's URL.
func ResolveCoordinates(config *cmd.Config, repository *gitrepo.Repository, remote string) (string, string, error) {
	owner, repo := config.Owner, config.Repo
	if owner != "" && repo != "" {
		return owner, repo, nil
	}

	parsed, err := repository.RemoteURL(remote)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrMissingRepository, err)
	}

	if owner == "" {
		owner = parsed.Owner
	}
	if repo == "" {
		repo = parsed.Repository
	}
	return owner, repo, nil
}
