package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
)

// buildSearchQuery scopes a free-text or qualifier query to pull requests of owner/repo
func buildSearchQuery(owner, repo, query string) string {
	parts := []string{
		fmt.Sprintf("repo:%s/%s", owner, repo),
		"is:pr",
	}
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		parts = append(parts, trimmed)
	}
	return strings.Join(parts, " ")
}

// SearchPullRequests runs an issue search restricted to this repository's
// pull requests and returns the first page of hits. Hits are coarse matches:
// callers must verify them against a detail fetch.
func (c *Client) SearchPullRequests(ctx context.Context, query string) ([]SearchResult, error) {
	q := buildSearchQuery(c.owner, c.repo, query)
	opts := &github.SearchOptions{
		Sort:  "updated",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: perPage,
		},
	}

	c.logger.Debug("GitHub API: Searching issues/PRs", zap.String("query", q))
	result, _, err := c.client.Search.Issues(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search PRs with query %q: %w", q, err)
	}

	c.logger.Debug("GitHub search results", zap.Int("total_count", result.GetTotal()), zap.Int("returned_count", len(result.Issues)))

	var results []SearchResult
	for _, issue := range result.Issues {
		if !issue.IsPullRequest() {
			continue
		}
		results = append(results, SearchResult{
			Number:    issue.GetNumber(),
			Title:     issue.GetTitle(),
			State:     issue.GetState(),
			URL:       issue.GetHTMLURL(),
			UpdatedAt: issue.GetUpdatedAt().Time,
		})
	}

	return results, nil
}
