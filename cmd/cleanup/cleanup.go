// Package cleanup implements the cleanup command that deletes local branches
// whose pull request was merged or closed.
package cleanup

import (
	"fmt"
	"io"

	"github.com/alan/branch-cleaner/cmd"
	"github.com/alan/branch-cleaner/internal/commands"
	"github.com/alan/branch-cleaner/internal/matcher"
	"github.com/spf13/cobra"
)

type options struct {
	policy commands.PolicyFlags
	dryRun bool
	force  bool
	remote string
}

// NewCleanupCmd creates and returns the cleanup command
func NewCleanupCmd(
	globalConfigFile *string,
	repoPath *string,
	loadConfig func(string) (*cmd.Config, error),
	logger commands.LoggerProvider,
	newService commands.ServiceFactory,
) *cobra.Command {
	opts := &options{}

	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete local branches whose pull request was merged or closed",
		Long: `Cleanup matches every local branch to its GitHub pull request and deletes
the branches whose pull request reached a state selected by --merged and
--closed. Protected branches and the checked out branch are never deleted.

Without --force the list of branches is shown and confirmation is asked
before anything is deleted.

Examples:
  branch-cleaner cleanup --dry-run
  branch-cleaner cleanup --merged --closed --force`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			bc := &commands.BaseCommand{
				ConfigFile: globalConfigFile,
				RepoPath:   repoPath,
				LoadConfig: loadConfig,
				Logger:     logger,
				Remote:     opts.remote,
				NewService: newService,
			}
			if err := bc.Init(cobraCmd.Context()); err != nil {
				return err
			}

			policy := commands.ResolvePolicy(bc.Config, opts.policy, cobraCmd.Flags().Changed)
			return runCleanup(cobraCmd.InOrStdin(), cobraCmd.OutOrStdout(), bc, policy, opts)
		},
	}

	commands.AddPolicyFlags(cleanupCmd, &opts.policy)
	cleanupCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be deleted without deleting")
	cleanupCmd.Flags().BoolVarP(&opts.force, "force", "y", false, "Delete without asking for confirmation")
	cleanupCmd.Flags().StringVar(&opts.remote, "remote", "", "Remote used to detect owner/repo (default from config, then \"origin\")")

	return cleanupCmd
}

func runCleanup(in io.Reader, out io.Writer, bc *commands.BaseCommand, policy matcher.Policy, opts *options) error {
	if policy.Empty() {
		return commands.ErrEmptyPolicy
	}

	analysis, err := bc.Analyze(policy)
	if err != nil {
		return err
	}
	commands.DisplayReport(out, bc.Owner, bc.Repo, analysis)

	deletions := analysis.Report.Deletions
	if len(deletions) == 0 {
		return nil
	}

	if opts.dryRun {
		commands.DisplayDryRun(out, deletions)
		return nil
	}

	if !opts.force {
		confirmed, err := commands.ConfirmAction(in, out, fmt.Sprintf("\nDelete %d branch(es)?", len(deletions)))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Aborted, no branches were deleted")
			return nil
		}
	}

	result := commands.DeleteBranches(out, bc.Repository, deletions, bc.Log())
	return commands.HandleExecuteAllResult(out, result)
}
