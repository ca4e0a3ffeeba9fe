// Package report groups branch classifications for display and derives the
// list of branches to delete.
package report

import (
	"github.com/alan/branch-cleaner/internal/github"
	"github.com/alan/branch-cleaner/internal/matcher"
	"github.com/samber/lo"
)

// Groups holds classifications by status, each in input order
type Groups struct {
	Merged         []matcher.Classification
	ClosedUnmerged []matcher.Classification
	Open           []matcher.Classification
	NoPullRequest  []matcher.Classification
	Errors         []matcher.Classification
}

// Deletion is one branch selected for deletion and the pull request that
// qualified it
type Deletion struct {
	Branch      string
	PullRequest *github.PullRequest
}

// Report is the full breakdown of one run
type Report struct {
	Groups    Groups
	Deletions []Deletion
	// Skipped qualified by policy but are protected or checked out
	Skipped []matcher.Classification
	Policy  matcher.Policy
}

// New builds the report. Deletions take the merged and closed-unmerged groups
// selected by policy and keep only branches that are safe to delete.
func New(classifications []matcher.Classification, policy matcher.Policy, current string, protected matcher.ProtectedSet) *Report {
	byStatus := lo.GroupBy(classifications, func(c matcher.Classification) matcher.Status {
		return c.Status
	})

	r := &Report{
		Groups: Groups{
			Merged:         byStatus[matcher.StatusMerged],
			ClosedUnmerged: byStatus[matcher.StatusClosedUnmerged],
			Open:           byStatus[matcher.StatusOpen],
			NoPullRequest:  byStatus[matcher.StatusNoPullRequest],
			Errors:         byStatus[matcher.StatusLookupError],
		},
		Policy: policy,
	}

	var candidates []matcher.Classification
	if policy.IncludeMerged {
		candidates = append(candidates, r.Groups.Merged...)
	}
	if policy.IncludeClosed {
		candidates = append(candidates, r.Groups.ClosedUnmerged...)
	}
	candidates = lo.Filter(candidates, func(c matcher.Classification, _ int) bool {
		return matcher.Classify(c.PullRequest, policy)
	})

	safe, unsafe := lo.FilterReject(candidates, func(c matcher.Classification, _ int) bool {
		return matcher.IsSafeToDelete(c.Branch, current, protected)
	})

	r.Deletions = lo.Map(safe, func(c matcher.Classification, _ int) Deletion {
		return Deletion{Branch: c.Branch, PullRequest: c.PullRequest}
	})
	r.Skipped = unsafe

	return r
}

// Branches returns the names of the branches to delete
func (r *Report) Branches() []string {
	return lo.Map(r.Deletions, func(d Deletion, _ int) string {
		return d.Branch
	})
}

// Total is the number of classified branches
func (r *Report) Total() int {
	g := r.Groups
	return len(g.Merged) + len(g.ClosedUnmerged) + len(g.Open) + len(g.NoPullRequest) + len(g.Errors)
}

// WouldDelete reports whether branch is on the deletion list
func (r *Report) WouldDelete(branch string) bool {
	return lo.ContainsBy(r.Deletions, func(d Deletion) bool {
		return d.Branch == branch
	})
}
