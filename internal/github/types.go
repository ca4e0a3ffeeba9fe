package github

import "time"

// Pull request states as reported by the GitHub API
const (
	StateOpen   = "open"
	StateClosed = "closed"
	StateAll    = "all"
)

// PullRequestSummary is a pull request as returned by list endpoints.
// List payloads do not carry an authoritative merged flag; use
// GetPullRequest to obtain a PullRequest before classifying.
type PullRequestSummary struct {
	Number    int
	HeadRef   string
	State     string
	Title     string
	URL       string
	UpdatedAt time.Time
}

// SearchResult is a pull request hit from the issue search endpoint.
// Search hits carry no head branch, so they can only be matched to a branch
// after a detail fetch.
type SearchResult struct {
	Number    int
	Title     string
	State     string
	URL       string
	UpdatedAt time.Time
}

// PullRequest is the full pull request record
type PullRequest struct {
	PullRequestSummary
	Merged   bool
	MergedAt *time.Time
}

// ListOptions configures ListAllPullRequests
type ListOptions struct {
	State string    // "open", "closed" or "all"; empty means "all"
	Since time.Time // when non-zero, only pull requests updated at or after Since are returned
}
