// Package githubtest provides an in-memory pull request service for tests
package githubtest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alan/branch-cleaner/internal/github"
)

// Method names recorded by Fake
const (
	MethodListForHead = "ListPullRequestsForHead"
	MethodSearch      = "SearchPullRequests"
	MethodGet         = "GetPullRequest"
	MethodListAll     = "ListAllPullRequests"
)

// Fake serves a fixed set of pull requests. PullRequests must be ordered
// newest-updated first, the order GitHub lists them in.
type Fake struct {
	PullRequests []github.PullRequest

	ListForHeadErr error
	ListAllErr     error
	// SearchErrs fails searches for the query given as key
	SearchErrs map[string]error
	// SearchErr fails every search not covered by SearchErrs
	SearchErr error
	GetErrs   map[int]error

	calls []string
}

// DefaultUpdatedAt is the update time PR assigns
var DefaultUpdatedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

// PR is a shorthand for building a full pull request record
func PR(number int, head, state string, merged bool) github.PullRequest {
	return github.PullRequest{
		PullRequestSummary: github.PullRequestSummary{
			Number:    number,
			HeadRef:   head,
			State:     state,
			Title:     fmt.Sprintf("PR %d", number),
			URL:       fmt.Sprintf("https://github.com/octo/repo/pull/%d", number),
			UpdatedAt: DefaultUpdatedAt,
		},
		Merged: merged,
	}
}

// Calls returns the recorded method calls in order
func (f *Fake) Calls() []string {
	return append([]string(nil), f.calls...)
}

// Count returns how many times method was called
func (f *Fake) Count(method string) int {
	n := 0
	for _, c := range f.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (f *Fake) ListPullRequestsForHead(_ context.Context, branch string) ([]github.PullRequestSummary, error) {
	f.calls = append(f.calls, MethodListForHead)
	if f.ListForHeadErr != nil {
		return nil, f.ListForHeadErr
	}

	var out []github.PullRequestSummary
	for _, pr := range f.PullRequests {
		if pr.HeadRef == branch {
			out = append(out, pr.PullRequestSummary)
		}
	}
	return out, nil
}

// SearchPullRequests understands the head:, in:title and bare qualifiers.
// Matching is substring based, so results are coarse like GitHub's.
func (f *Fake) SearchPullRequests(_ context.Context, query string) ([]github.SearchResult, error) {
	f.calls = append(f.calls, MethodSearch)
	if err, ok := f.SearchErrs[query]; ok {
		return nil, err
	}
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}

	var match func(pr github.PullRequest) bool
	switch {
	case strings.HasPrefix(query, "head:"):
		term := strings.TrimPrefix(query, "head:")
		match = func(pr github.PullRequest) bool { return strings.Contains(pr.HeadRef, term) }
	case strings.HasPrefix(query, "in:title "):
		term := strings.TrimPrefix(query, "in:title ")
		match = func(pr github.PullRequest) bool { return strings.Contains(pr.Title, term) }
	default:
		match = func(pr github.PullRequest) bool {
			return strings.Contains(pr.Title, query) || strings.Contains(pr.HeadRef, query)
		}
	}

	var out []github.SearchResult
	for _, pr := range f.PullRequests {
		if match(pr) {
			out = append(out, github.SearchResult{
				Number:    pr.Number,
				Title:     pr.Title,
				State:     pr.State,
				URL:       pr.URL,
				UpdatedAt: pr.UpdatedAt,
			})
		}
	}
	return out, nil
}

func (f *Fake) GetPullRequest(_ context.Context, number int) (*github.PullRequest, error) {
	f.calls = append(f.calls, MethodGet)
	if err, ok := f.GetErrs[number]; ok {
		return nil, err
	}

	for _, pr := range f.PullRequests {
		if pr.Number == number {
			detail := pr
			return &detail, nil
		}
	}
	return nil, fmt.Errorf("failed to fetch PR #%d: not found", number)
}

func (f *Fake) ListAllPullRequests(_ context.Context, opts github.ListOptions) ([]github.PullRequestSummary, error) {
	f.calls = append(f.calls, MethodListAll)
	if f.ListAllErr != nil {
		return nil, f.ListAllErr
	}

	var out []github.PullRequestSummary
	for _, pr := range f.PullRequests {
		if opts.State != "" && opts.State != github.StateAll && pr.State != opts.State {
			continue
		}
		if !opts.Since.IsZero() && pr.UpdatedAt.Before(opts.Since) {
			continue
		}
		out = append(out, pr.PullRequestSummary)
	}
	return out, nil
}
