// Package resolver classifies many branches from one time-bounded listing of
// pull requests, falling back to per-branch lookups when that listing fails.
package resolver

import (
	"context"
	"time"

	"github.com/alan/branch-cleaner/internal/github"
	"github.com/alan/branch-cleaner/internal/gitrepo"
	"github.com/alan/branch-cleaner/internal/matcher"
	"go.uber.org/zap"
)

// DefaultBufferDays widens the listing window to absorb clock skew, rebases
// and force pushes.
const DefaultBufferDays = 30

// Mode reports which path produced a set of classifications
type Mode string

const (
	ModeBatch    Mode = "batch"
	ModeFallback Mode = "fallback"
)

// Service is the subset of the GitHub client the batch path needs
type Service interface {
	ListAllPullRequests(ctx context.Context, opts github.ListOptions) ([]github.PullRequestSummary, error)
	GetPullRequest(ctx context.Context, number int) (*github.PullRequest, error)
}

// Config tunes a Resolver
type Config struct {
	// BufferDays is subtracted from the oldest branch commit to get the
	// listing's since bound
	BufferDays int
	Logger     *zap.Logger
}

// DefaultConfig returns a Config with the default buffer
func DefaultConfig() Config {
	return Config{BufferDays: DefaultBufferDays}
}

// Resolver classifies local branches against pull requests
type Resolver struct {
	service    Service
	matcher    *matcher.Matcher
	bufferDays int
	logger     *zap.Logger
}

// New builds a Resolver. The matcher serves the per-branch fallback.
func New(service Service, m *matcher.Matcher, cfg Config) *Resolver {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		service:    service,
		matcher:    m,
		bufferDays: cfg.BufferDays,
		logger:     logger,
	}
}

// Since returns the oldest known EarliestCommit minus bufferDays, or the zero
// time when no branch has a known commit date.
func Since(branches []gitrepo.Branch, bufferDays int) time.Time {
	var oldest time.Time
	for _, b := range branches {
		if b.EarliestCommit.IsZero() {
			continue
		}
		if oldest.IsZero() || b.EarliestCommit.Before(oldest) {
			oldest = b.EarliestCommit
		}
	}
	if oldest.IsZero() {
		return time.Time{}
	}
	return oldest.AddDate(0, 0, -bufferDays)
}

// IndexByHead maps each head branch to its first summary in prs. Listings are
// newest-updated first, so the first occurrence is the most recent one.
// Keys are head branch names only; the head owner is not checked, so a fork
// PR with the same branch name is indexed like one from the repository.
func IndexByHead(prs []github.PullRequestSummary) map[string]github.PullRequestSummary {
	index := make(map[string]github.PullRequestSummary, len(prs))
	for _, pr := range prs {
		if _, seen := index[pr.HeadRef]; !seen {
			index[pr.HeadRef] = pr
		}
	}
	return index
}

// Resolve classifies every branch, in input order. Failures never abort the
// run: a failed listing switches to per-branch lookups and a failed lookup
// becomes a lookup-error classification for that branch.
func (r *Resolver) Resolve(ctx context.Context, branches []gitrepo.Branch) ([]matcher.Classification, Mode) {
	if len(branches) == 0 {
		return nil, ModeBatch
	}

	since := Since(branches, r.bufferDays)
	r.logger.Debug("Fetching pull requests for batch resolution",
		zap.Int("branches", len(branches)), zap.Time("since", since))

	prs, err := r.service.ListAllPullRequests(ctx, github.ListOptions{State: github.StateAll, Since: since})
	if err != nil {
		r.logger.Warn("Batch pull request fetch failed, resolving branches one by one",
			zap.Bool("rate_limited", github.IsRateLimited(err)), zap.Error(err))
		return r.resolveEach(ctx, branches), ModeFallback
	}

	index := IndexByHead(prs)
	r.logger.Debug("Indexed pull requests by head", zap.Int("pull_requests", len(prs)), zap.Int("heads", len(index)))

	classifications := make([]matcher.Classification, 0, len(branches))
	for _, branch := range branches {
		summary, ok := index[branch.Name]
		if !ok {
			classifications = append(classifications, matcher.Resolved(branch.Name, nil))
			continue
		}

		pr, err := r.service.GetPullRequest(ctx, summary.Number)
		if err != nil {
			r.logger.Warn("Failed to fetch pull request details",
				zap.String("branch", branch.Name), zap.Int("pr", summary.Number), zap.Error(err))
			classifications = append(classifications, matcher.Failed(branch.Name, err))
			continue
		}
		classifications = append(classifications, matcher.Resolved(branch.Name, pr))
	}

	return classifications, ModeBatch
}

func (r *Resolver) resolveEach(ctx context.Context, branches []gitrepo.Branch) []matcher.Classification {
	classifications := make([]matcher.Classification, 0, len(branches))
	for _, branch := range branches {
		pr, err := r.matcher.FindPullRequestForBranch(ctx, branch.Name)
		if err != nil {
			r.logger.Warn("Failed to resolve branch", zap.String("branch", branch.Name), zap.Error(err))
			classifications = append(classifications, matcher.Failed(branch.Name, err))
			continue
		}
		classifications = append(classifications, matcher.Resolved(branch.Name, pr))
	}
	return classifications
}
