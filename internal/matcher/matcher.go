// Package matcher finds the pull request behind a local branch and decides
// whether the branch may be deleted.
package matcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/alan/branch-cleaner/internal/github"
	"go.uber.org/zap"
)

// defaultMaxSearchCandidates bounds the detail fetches spent on one search query
const defaultMaxSearchCandidates = 10

// PullRequestService is the subset of the GitHub client the matcher needs
type PullRequestService interface {
	ListPullRequestsForHead(ctx context.Context, branch string) ([]github.PullRequestSummary, error)
	SearchPullRequests(ctx context.Context, query string) ([]github.SearchResult, error)
	GetPullRequest(ctx context.Context, number int) (*github.PullRequest, error)
	ListAllPullRequests(ctx context.Context, opts github.ListOptions) ([]github.PullRequestSummary, error)
}

// QueryBuilder turns a branch name into a search qualifier
type QueryBuilder struct {
	Name  string
	Build func(branch string) string
}

// DefaultSearchQueries returns the head:, in:title and bare search variants
func DefaultSearchQueries() []QueryBuilder {
	return []QueryBuilder{
		{Name: "head", Build: func(branch string) string { return "head:" + branch }},
		{Name: "title", Build: func(branch string) string { return "in:title " + branch }},
		{Name: "bare", Build: func(branch string) string { return branch }},
	}
}

// Config tunes a Matcher
type Config struct {
	// SearchQueries are tried in order between the head listing and the
	// full listing. Nil means DefaultSearchQueries; an empty slice disables
	// search.
	SearchQueries []QueryBuilder
	// MaxSearchCandidates caps detail fetches per search query (default 10)
	MaxSearchCandidates int
	Logger              *zap.Logger
}

// Strategy looks up the full pull request for branch. A nil record with a
// nil error means the strategy found nothing.
type Strategy func(ctx context.Context, branch string) (*github.PullRequest, error)

type namedStrategy struct {
	name string
	find Strategy
}

// Matcher resolves branches through an ordered chain of strategies
type Matcher struct {
	service       PullRequestService
	strategies    []namedStrategy
	maxCandidates int
	logger        *zap.Logger
}

// New builds a Matcher whose chain is head listing, each search query, then
// the full listing.
func New(service PullRequestService, cfg Config) *Matcher {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	maxCandidates := cfg.MaxSearchCandidates
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxSearchCandidates
	}

	queries := cfg.SearchQueries
	if queries == nil {
		queries = DefaultSearchQueries()
	}

	m := &Matcher{
		service:       service,
		maxCandidates: maxCandidates,
		logger:        logger,
	}

	m.strategies = append(m.strategies, namedStrategy{name: "head-listing", find: m.findByHeadListing})
	for _, q := range queries {
		m.strategies = append(m.strategies, namedStrategy{name: "search:" + q.Name, find: m.searchStrategy(q)})
	}
	m.strategies = append(m.strategies, namedStrategy{name: "full-listing", find: m.findByFullListing})

	return m
}

// Strategies returns the strategy names in the order they are tried
func (m *Matcher) Strategies() []string {
	names := make([]string, 0, len(m.strategies))
	for _, s := range m.strategies {
		names = append(names, s.name)
	}
	return names
}

// FindPullRequestForBranch runs the strategy chain and returns the first
// match with its full record. It returns nil, nil when no strategy matched,
// and an error wrapping ErrResolutionFailed only when every strategy failed.
func (m *Matcher) FindPullRequestForBranch(ctx context.Context, branch string) (*github.PullRequest, error) {
	var errs []error

	for _, strategy := range m.strategies {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("lookup of branch %s cancelled: %w", branch, err)
		}

		pr, err := strategy.find(ctx, branch)
		if err != nil {
			m.logger.Warn("Lookup strategy failed, trying next",
				zap.String("branch", branch), zap.String("strategy", strategy.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", strategy.name, err))
			continue
		}
		if pr != nil {
			m.logger.Debug("Matched pull request",
				zap.String("branch", branch), zap.String("strategy", strategy.name), zap.Int("pr", pr.Number))
			return pr, nil
		}
	}

	if len(errs) == len(m.strategies) {
		return nil, fmt.Errorf("%w for branch %s: %w", ErrResolutionFailed, branch, errors.Join(errs...))
	}

	m.logger.Debug("No pull request found", zap.String("branch", branch))
	return nil, nil
}

func (m *Matcher) findByHeadListing(ctx context.Context, branch string) (*github.PullRequest, error) {
	prs, err := m.service.ListPullRequestsForHead(ctx, branch)
	if err != nil {
		return nil, err
	}
	return m.firstExactMatch(ctx, prs, branch)
}

func (m *Matcher) findByFullListing(ctx context.Context, branch string) (*github.PullRequest, error) {
	prs, err := m.service.ListAllPullRequests(ctx, github.ListOptions{State: github.StateAll})
	if err != nil {
		return nil, err
	}
	return m.firstExactMatch(ctx, prs, branch)
}

// firstExactMatch detail-fetches the first summary whose head is branch.
// Only the head ref name is compared, not the head owner, so fork PRs that
// reuse the branch name also match.
func (m *Matcher) firstExactMatch(ctx context.Context, prs []github.PullRequestSummary, branch string) (*github.PullRequest, error) {
	matched := github.FilterByHead(prs, branch)
	if len(matched) == 0 {
		return nil, nil
	}
	return m.service.GetPullRequest(ctx, matched[0].Number)
}

// searchStrategy runs one query variant. Search hits carry no head ref, so
// each candidate is detail-fetched and kept only on an exact head match.
func (m *Matcher) searchStrategy(q QueryBuilder) Strategy {
	return func(ctx context.Context, branch string) (*github.PullRequest, error) {
		results, err := m.service.SearchPullRequests(ctx, q.Build(branch))
		if err != nil {
			return nil, err
		}

		for i, result := range results {
			if i >= m.maxCandidates {
				m.logger.Debug("Search candidate limit reached",
					zap.String("branch", branch), zap.String("query", q.Name), zap.Int("results", len(results)))
				break
			}

			pr, err := m.service.GetPullRequest(ctx, result.Number)
			if err != nil {
				return nil, err
			}
			// head owner is not compared
			if pr.HeadRef == branch {
				return pr, nil
			}
		}
		return nil, nil
	}
}
