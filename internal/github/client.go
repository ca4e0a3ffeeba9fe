// Package github wraps the GitHub REST API calls used to match local branches
// to pull requests.
package github

import (
	"context"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// perPage is the fixed page size for every paginated request
const perPage = 100

// Client wraps the GitHub API client
type Client struct {
	client *github.Client
	owner  string
	repo   string
	logger *zap.Logger
}

// NewClient creates a new GitHub client with token authentication
func NewClient(ctx context.Context, token string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: github.NewClient(tc),
		logger: zap.NewNop(),
	}
}

// WithRepository returns a copy of the client scoped to owner/repo
func (c *Client) WithRepository(owner, repo string) *Client {
	scoped := *c
	scoped.owner = owner
	scoped.repo = repo
	return &scoped
}

// WithLogger returns a copy of the client that logs API calls to logger
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	scoped := *c
	if logger == nil {
		logger = zap.NewNop()
	}
	scoped.logger = logger
	return &scoped
}

// Owner returns the repository owner the client is scoped to
func (c *Client) Owner() string {
	return c.owner
}

// Repo returns the repository name the client is scoped to
func (c *Client) Repo() string {
	return c.repo
}

// pageFetcher fetches one page of results
type pageFetcher[T any] func(page int) ([]T, *github.Response, error)

// paginatedList walks pages until the API reports no next page, a short page
// is returned, or stop reports true for the page just fetched.
func paginatedList[T any](fetch pageFetcher[T], stop func(page []T) bool) ([]T, error) {
	var all []T

	for page := 1; ; {
		items, resp, err := fetch(page)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)

		if len(items) < perPage || resp == nil || resp.NextPage == 0 {
			break
		}
		if stop != nil && stop(items) {
			break
		}
		page = resp.NextPage
	}

	return all, nil
}
