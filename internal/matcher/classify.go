package matcher

import "github.com/alan/branch-cleaner/internal/github"

// Classify reports whether pr qualifies its branch for deletion under policy
func Classify(pr *github.PullRequest, policy Policy) bool {
	if pr == nil {
		return false
	}
	if policy.IncludeMerged && pr.Merged {
		return true
	}
	return policy.IncludeClosed && pr.State == github.StateClosed && !pr.Merged
}

// StatusOf maps a full pull request record to a branch status
func StatusOf(pr *github.PullRequest) Status {
	switch {
	case pr == nil:
		return StatusNoPullRequest
	case pr.Merged:
		return StatusMerged
	case pr.State == github.StateClosed:
		return StatusClosedUnmerged
	default:
		return StatusOpen
	}
}

// IsSafeToDelete is false for the current branch and for protected names.
// It is applied after, never instead of, Classify.
func IsSafeToDelete(branch, current string, protected ProtectedSet) bool {
	if branch == current {
		return false
	}
	return !protected.Contains(branch)
}
