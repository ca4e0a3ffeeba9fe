// Package status implements the status command for reporting the pull request state of local branches.
package status

import (
	"fmt"
	"io"
	"os"

	"github.com/alan/branch-cleaner/cmd"
	"github.com/alan/branch-cleaner/internal/commands"
	"github.com/alan/branch-cleaner/internal/resolver"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates and returns the status command
func NewStatusCmd(
	globalConfigFile *string,
	repoPath *string,
	loadConfig func(string) (*cmd.Config, error),
	logger commands.LoggerProvider,
	newService commands.ServiceFactory,
) *cobra.Command {
	var policyFlags commands.PolicyFlags
	var remote string

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the pull request status of every local branch",
		Long: `Display every local branch grouped by the state of its GitHub pull request
and mark the branches cleanup would delete. Nothing is deleted.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			bc := &commands.BaseCommand{
				ConfigFile: globalConfigFile,
				RepoPath:   repoPath,
				LoadConfig: loadConfig,
				Logger:     logger,
				Remote:     remote,
				NewService: newService,
			}
			if err := bc.Init(cobraCmd.Context()); err != nil {
				return err
			}

			policy := commands.ResolvePolicy(bc.Config, policyFlags, cobraCmd.Flags().Changed)
			analysis, err := bc.Analyze(policy)
			if err != nil {
				return err
			}

			out := cobraCmd.OutOrStdout()
			commands.DisplayReport(out, bc.Owner, bc.Repo, analysis)
			displayStatusSummary(out, analysis)
			if len(analysis.Report.Deletions) > 0 {
				fmt.Fprintf(out, "💡 %s%s cleanup\n", executableName(), getConfigFlag(*globalConfigFile))
			}
			return nil
		},
	}

	commands.AddPolicyFlags(statusCmd, &policyFlags)
	statusCmd.Flags().StringVar(&remote, "remote", "", "Remote used to detect owner/repo (default from config, then \"origin\")")

	return statusCmd
}

// displayStatusSummary displays the summary statistics
func displayStatusSummary(w io.Writer, analysis *commands.Analysis) {
	groups := analysis.Report.Groups
	fmt.Fprintf(w, "\nSummary: %d branch(es), %d merged, %d closed, %d open, %d without PR, %d failed\n",
		analysis.Report.Total(), len(groups.Merged), len(groups.ClosedUnmerged), len(groups.Open),
		len(groups.NoPullRequest), len(groups.Errors))
	if analysis.Mode == resolver.ModeFallback {
		fmt.Fprintln(w, "⚠️  Batch listing failed, branches were looked up one at a time")
	}
}

func executableName() string {
	if len(os.Args) == 0 {
		return "branch-cleaner"
	}
	return os.Args[0]
}

// getConfigFlag returns the config flag if not using default
func getConfigFlag(configFile string) string {
	if configFile == cmd.DefaultConfigFile {
		return ""
	}
	return fmt.Sprintf(" --config %s", configFile)
}
