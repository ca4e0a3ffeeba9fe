package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
)

// ListPullRequestsForHead lists pull requests in any state whose head is
// owner:branch, newest-updated first. If GitHub rejects the head filter, the
// full listing is fetched and filtered by exact head branch name instead.
func (c *Client) ListPullRequestsForHead(ctx context.Context, branch string) ([]PullRequestSummary, error) {
	head := fmt.Sprintf("%s:%s", c.owner, branch)

	prs, err := paginatedList(func(page int) ([]*github.PullRequest, *github.Response, error) {
		opts := &github.PullRequestListOptions{
			State:     StateAll,
			Head:      head,
			Sort:      "updated",
			Direction: "desc",
			ListOptions: github.ListOptions{
				PerPage: perPage,
				Page:    page,
			},
		}
		c.logger.Debug("GitHub API: Listing pull requests for head",
			zap.String("owner", c.owner), zap.String("repo", c.repo), zap.String("head", head), zap.Int("page", page))
		return c.client.PullRequests.List(ctx, c.owner, c.repo, opts)
	}, nil)
	if err != nil {
		if !IsValidationError(err) {
			return nil, fmt.Errorf("failed to list pull requests for head %s: %w", head, err)
		}

		c.logger.Debug("Head filter rejected, filtering full listing", zap.String("head", head), zap.Error(err))
		all, listErr := c.ListAllPullRequests(ctx, ListOptions{State: StateAll})
		if listErr != nil {
			return nil, fmt.Errorf("failed to list pull requests for head %s: %w", head, listErr)
		}
		return FilterByHead(all, branch), nil
	}

	return summariesFromGitHub(prs), nil
}

// ListAllPullRequests pages through the repository's pull requests sorted by
// most recently updated. When opts.Since is set, entries updated before it are
// dropped and paging stops at the first page reaching past it.
func (c *Client) ListAllPullRequests(ctx context.Context, opts ListOptions) ([]PullRequestSummary, error) {
	state := opts.State
	if state == "" {
		state = StateAll
	}

	var stop func([]*github.PullRequest) bool
	if !opts.Since.IsZero() {
		stop = func(page []*github.PullRequest) bool {
			for _, pr := range page {
				if pr.GetUpdatedAt().Time.Before(opts.Since) {
					return true
				}
			}
			return false
		}
	}

	prs, err := paginatedList(func(page int) ([]*github.PullRequest, *github.Response, error) {
		listOpts := &github.PullRequestListOptions{
			State:     state,
			Sort:      "updated",
			Direction: "desc",
			ListOptions: github.ListOptions{
				PerPage: perPage,
				Page:    page,
			},
		}
		c.logger.Debug("GitHub API: Listing pull requests",
			zap.String("owner", c.owner), zap.String("repo", c.repo), zap.String("state", state),
			zap.Time("since", opts.Since), zap.Int("page", page))
		return c.client.PullRequests.List(ctx, c.owner, c.repo, listOpts)
	}, stop)
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests for %s/%s: %w", c.owner, c.repo, err)
	}

	summaries := summariesFromGitHub(prs)
	if opts.Since.IsZero() {
		return summaries, nil
	}

	filtered := summaries[:0]
	for _, pr := range summaries {
		if !pr.UpdatedAt.Before(opts.Since) {
			filtered = append(filtered, pr)
		}
	}
	return filtered, nil
}

// GetPullRequest fetches the full record for a pull request. The returned
// Merged flag is authoritative.
func (c *Client) GetPullRequest(ctx context.Context, number int) (*PullRequest, error) {
	c.logger.Debug("GitHub API: Getting PR", zap.String("owner", c.owner), zap.String("repo", c.repo), zap.Int("pr", number))
	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch PR #%d: %w", number, err)
	}

	merged := pr.GetMerged() || pr.MergedAt != nil
	if pr.Merged == nil && pr.MergedAt == nil && pr.GetState() == StateClosed {
		merged, err = c.isMerged(ctx, number)
		if err != nil {
			return nil, err
		}
	}

	detail := &PullRequest{
		PullRequestSummary: summaryFromGitHub(pr),
		Merged:             merged,
	}
	if pr.MergedAt != nil {
		mergedAt := pr.MergedAt.Time
		detail.MergedAt = &mergedAt
	}

	return detail, nil
}

// isMerged asks the merge endpoint directly; a 404 there means "not merged"
func (c *Client) isMerged(ctx context.Context, number int) (bool, error) {
	c.logger.Debug("GitHub API: Checking PR merge status", zap.String("owner", c.owner), zap.String("repo", c.repo), zap.Int("pr", number))
	merged, _, err := c.client.PullRequests.IsMerged(ctx, c.owner, c.repo, number)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check merge status of PR #%d: %w", number, err)
	}
	return merged, nil
}

// FilterByHead keeps the pull requests whose head branch is exactly branch
func FilterByHead(prs []PullRequestSummary, branch string) []PullRequestSummary {
	var matched []PullRequestSummary
	for _, pr := range prs {
		if pr.HeadRef == branch {
			matched = append(matched, pr)
		}
	}
	return matched
}

func summariesFromGitHub(prs []*github.PullRequest) []PullRequestSummary {
	summaries := make([]PullRequestSummary, 0, len(prs))
	for _, pr := range prs {
		summaries = append(summaries, summaryFromGitHub(pr))
	}
	return summaries
}

func summaryFromGitHub(pr *github.PullRequest) PullRequestSummary {
	return PullRequestSummary{
		Number:    pr.GetNumber(),
		HeadRef:   pr.GetHead().GetRef(),
		State:     pr.GetState(),
		Title:     pr.GetTitle(),
		URL:       pr.GetHTMLURL(),
		UpdatedAt: pr.GetUpdatedAt().Time,
	}
}
