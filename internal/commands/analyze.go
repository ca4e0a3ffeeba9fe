package commands

import (
	"fmt"

	"github.com/alan/branch-cleaner/internal/gitrepo"
	"github.com/alan/branch-cleaner/internal/matcher"
	"github.com/alan/branch-cleaner/internal/report"
	"github.com/alan/branch-cleaner/internal/resolver"
	"go.uber.org/zap"
)

// Analysis is the outcome of classifying every local branch
type Analysis struct {
	Report        *report.Report
	CurrentBranch string
	Mode          resolver.Mode
}

// ProtectedSet returns the default protected names plus the configured ones
func (bc *BaseCommand) ProtectedSet() matcher.ProtectedSet {
	return matcher.NewProtectedSet(bc.Config.AllProtectedBranches()...)
}

// Analyze enumerates local branches, resolves each against GitHub and builds
// the report for policy. It must run after Init.
func (bc *BaseCommand) Analyze(policy matcher.Policy) (*Analysis, error) {
	logger := bc.Log()

	current, err := bc.Repository.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gitrepo.ErrListBranches, err)
	}

	branches, err := bc.Repository.Branches(bc.Context, gitrepo.BranchOptions{
		BaseBranches: bc.Config.AllProtectedBranches(),
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Classifying local branches", zap.Int("branches", len(branches)), zap.String("current", current))

	m := matcher.New(bc.Service, matcher.Config{Logger: logger})
	r := resolver.New(bc.Service, m, resolver.Config{
		BufferDays: bc.Config.BufferDays,
		Logger:     logger,
	})

	classifications, mode := r.Resolve(bc.Context, branches)
	rep := report.New(classifications, policy, current, bc.ProtectedSet())

	logger.Debug("Branches classified",
		zap.String("mode", string(mode)),
		zap.Int("merged", len(rep.Groups.Merged)),
		zap.Int("closed_unmerged", len(rep.Groups.ClosedUnmerged)),
		zap.Int("open", len(rep.Groups.Open)),
		zap.Int("no_pull_request", len(rep.Groups.NoPullRequest)),
		zap.Int("errors", len(rep.Groups.Errors)),
		zap.Int("deletions", len(rep.Deletions)))

	return &Analysis{Report: rep, CurrentBranch: current, Mode: mode}, nil
}
