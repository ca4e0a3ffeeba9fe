package commands

import (
	"github.com/alan/branch-cleaner/cmd"
	"github.com/alan/branch-cleaner/internal/matcher"
	"github.com/spf13/cobra"
)

// PolicyFlags holds the --merged and --closed values of a command
type PolicyFlags struct {
	Merged bool
	Closed bool
}

// AddPolicyFlags registers --merged and --closed on cobraCmd
func AddPolicyFlags(cobraCmd *cobra.Command, flags *PolicyFlags) {
	cobraCmd.Flags().BoolVar(&flags.Merged, "merged", false, "Select branches whose pull request was merged (default from config)")
	cobraCmd.Flags().BoolVar(&flags.Closed, "closed", false, "Select branches whose pull request was closed without merge (default from config)")
}

// ResolvePolicy starts from the configured defaults and applies whichever
// policy flags were set explicitly.
func ResolvePolicy(config *cmd.Config, flags PolicyFlags, changed func(name string) bool) matcher.Policy {
	policy := matcher.Policy{
		IncludeMerged: config.IncludeMerged,
		IncludeClosed: config.IncludeClosed,
	}
	if changed == nil {
		return policy
	}
	if changed("merged") {
		policy.IncludeMerged = flags.Merged
	}
	if changed("closed") {
		policy.IncludeClosed = flags.Closed
	}
	return policy
}
