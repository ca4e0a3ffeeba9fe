package matcher

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alan/branch-cleaner/internal/github"
	"github.com/alan/branch-cleaner/internal/github/githubtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	_ PullRequestService = (*github.Client)(nil)
	_ PullRequestService = (*githubtest.Fake)(nil)
)

var errTransport = errors.New("connection reset")

func newTestMatcher(t *testing.T, fake *githubtest.Fake) *Matcher {
	t.Helper()
	return New(fake, Config{Logger: zaptest.NewLogger(t)})
}

func titled(pr github.PullRequest, title string) github.PullRequest {
	pr.Title = title
	return pr
}

func TestStrategyOrder(t *testing.T) {
	m := newTestMatcher(t, &githubtest.Fake{})

	assert.Equal(t,
		[]string{"head-listing", "search:head", "search:title", "search:bare", "full-listing"},
		m.Strategies())

	noSearch := New(&githubtest.Fake{}, Config{SearchQueries: []QueryBuilder{}})
	assert.Equal(t, []string{"head-listing", "full-listing"}, noSearch.Strategies())
}

func TestFindPullRequestForBranch(t *testing.T) {
	tests := []struct {
		name       string
		fake       *githubtest.Fake
		branch     string
		wantNumber int
		wantCalls  []string
	}{
		{
			name: "head listing match",
			fake: &githubtest.Fake{PullRequests: []github.PullRequest{
				githubtest.PR(10, "feat/x", github.StateClosed, true),
			}},
			branch:     "feat/x",
			wantNumber: 10,
			wantCalls:  []string{githubtest.MethodListForHead, githubtest.MethodGet},
		},
		{
			name: "head listing fails, head search matches",
			fake: &githubtest.Fake{
				PullRequests:   []github.PullRequest{githubtest.PR(10, "feat/x", github.StateClosed, true)},
				ListForHeadErr: errTransport,
			},
			branch:     "feat/x",
			wantNumber: 10,
			wantCalls:  []string{githubtest.MethodListForHead, githubtest.MethodSearch, githubtest.MethodGet},
		},
		{
			name: "coarse search hit with other head is skipped",
			fake: &githubtest.Fake{
				PullRequests: []github.PullRequest{
					githubtest.PR(12, "feat/x-2", github.StateOpen, false),
					githubtest.PR(10, "feat/x", github.StateClosed, false),
				},
				ListForHeadErr: errTransport,
			},
			branch:     "feat/x",
			wantNumber: 10,
			wantCalls: []string{
				githubtest.MethodListForHead, githubtest.MethodSearch, githubtest.MethodGet, githubtest.MethodGet,
			},
		},
		{
			name: "title search after head search fails",
			fake: &githubtest.Fake{
				PullRequests: []github.PullRequest{
					titled(githubtest.PR(10, "feat/x", github.StateClosed, true), "Merge feat/x into main"),
				},
				ListForHeadErr: errTransport,
				SearchErrs:     map[string]error{"head:feat/x": errTransport},
			},
			branch:     "feat/x",
			wantNumber: 10,
			wantCalls: []string{
				githubtest.MethodListForHead, githubtest.MethodSearch, githubtest.MethodSearch, githubtest.MethodGet,
			},
		},
		{
			name: "full listing when every search fails",
			fake: &githubtest.Fake{
				PullRequests:   []github.PullRequest{githubtest.PR(10, "feat/x", github.StateClosed, true)},
				ListForHeadErr: errTransport,
				SearchErr:      errTransport,
			},
			branch:     "feat/x",
			wantNumber: 10,
			wantCalls: []string{
				githubtest.MethodListForHead,
				githubtest.MethodSearch, githubtest.MethodSearch, githubtest.MethodSearch,
				githubtest.MethodListAll, githubtest.MethodGet,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatcher(t, tt.fake)

			pr, err := m.FindPullRequestForBranch(context.Background(), tt.branch)

			require.NoError(t, err)
			require.NotNil(t, pr)
			assert.Equal(t, tt.wantNumber, pr.Number)
			assert.Equal(t, tt.branch, pr.HeadRef)
			assert.Equal(t, tt.wantCalls, tt.fake.Calls())
		})
	}
}

func TestFindPullRequestForBranch_Exhausted(t *testing.T) {
	fake := &githubtest.Fake{PullRequests: []github.PullRequest{
		githubtest.PR(10, "feat/x", github.StateClosed, true),
	}}
	m := newTestMatcher(t, fake)

	pr, err := m.FindPullRequestForBranch(context.Background(), "feat/none")

	require.NoError(t, err, "finding nothing is not an error")
	assert.Nil(t, pr)
	assert.Equal(t, 1, fake.Count(githubtest.MethodListForHead))
	assert.Equal(t, 3, fake.Count(githubtest.MethodSearch))
	assert.Equal(t, 1, fake.Count(githubtest.MethodListAll))
	assert.Equal(t, 0, fake.Count(githubtest.MethodGet))
}

func TestFindPullRequestForBranch_PartialFailuresFindNothing(t *testing.T) {
	fake := &githubtest.Fake{
		ListForHeadErr: errTransport,
		SearchErr:      errTransport,
	}
	m := newTestMatcher(t, fake)

	pr, err := m.FindPullRequestForBranch(context.Background(), "feat/x")

	require.NoError(t, err, "one successful empty strategy keeps the result at no-pull-request")
	assert.Nil(t, pr)
}

func TestFindPullRequestForBranch_AllStrategiesFail(t *testing.T) {
	fake := &githubtest.Fake{
		ListForHeadErr: errTransport,
		SearchErr:      errTransport,
		ListAllErr:     errTransport,
	}
	m := newTestMatcher(t, fake)

	pr, err := m.FindPullRequestForBranch(context.Background(), "feat/x")

	require.Error(t, err)
	assert.Nil(t, pr)
	assert.ErrorIs(t, err, ErrResolutionFailed)
	assert.ErrorIs(t, err, errTransport)
	assert.Contains(t, err.Error(), "feat/x")
	assert.Contains(t, err.Error(), "full-listing")
}

func TestFindPullRequestForBranch_DetailFailureFailsStrategy(t *testing.T) {
	fake := &githubtest.Fake{
		PullRequests: []github.PullRequest{titled(githubtest.PR(10, "feat/x", github.StateClosed, true), "feat/x")},
		GetErrs:      map[int]error{10: fmt.Errorf("failed to fetch PR #10: %w", errTransport)},
	}
	m := newTestMatcher(t, fake)

	_, err := m.FindPullRequestForBranch(context.Background(), "feat/x")

	require.Error(t, err, "every strategy found the PR but could not fetch its detail")
	assert.ErrorIs(t, err, ErrResolutionFailed)
}

func TestFindPullRequestForBranch_Cancelled(t *testing.T) {
	fake := &githubtest.Fake{}
	m := newTestMatcher(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.FindPullRequestForBranch(ctx, "feat/x")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrResolutionFailed)
	assert.Empty(t, fake.Calls())
}

func TestSearchCandidateLimit(t *testing.T) {
	var prs []github.PullRequest
	for i := 1; i <= 20; i++ {
		prs = append(prs, titled(githubtest.PR(i, fmt.Sprintf("other-%d", i), github.StateOpen, false), "mentions feat/x"))
	}
	fake := &githubtest.Fake{PullRequests: prs, ListForHeadErr: errTransport}
	m := New(fake, Config{
		SearchQueries:       []QueryBuilder{DefaultSearchQueries()[1]},
		MaxSearchCandidates: 3,
		Logger:              zaptest.NewLogger(t),
	})

	pr, err := m.FindPullRequestForBranch(context.Background(), "feat/x")

	require.NoError(t, err)
	assert.Nil(t, pr)
	assert.Equal(t, 3, fake.Count(githubtest.MethodGet))
}

// The head listing and the head: search ask GitHub nearly the same question.
// These cases record that dropping the head: search variant leaves the
// outcome of a lookup unchanged; only the calls made differ.
func TestSearchCascadeDeduplication(t *testing.T) {
	withoutHeadSearch := func() []QueryBuilder {
		var queries []QueryBuilder
		for _, q := range DefaultSearchQueries() {
			if q.Name != "head" {
				queries = append(queries, q)
			}
		}
		return queries
	}

	scenarios := []struct {
		name   string
		fake   func() *githubtest.Fake
		branch string
	}{
		{
			name: "head listing finds the PR",
			fake: func() *githubtest.Fake {
				return &githubtest.Fake{PullRequests: []github.PullRequest{githubtest.PR(10, "feat/x", github.StateClosed, true)}}
			},
			branch: "feat/x",
		},
		{
			name: "head listing fails",
			fake: func() *githubtest.Fake {
				return &githubtest.Fake{
					PullRequests:   []github.PullRequest{githubtest.PR(10, "feat/x", github.StateClosed, true)},
					ListForHeadErr: errTransport,
				}
			},
			branch: "feat/x",
		},
		{
			name: "no PR anywhere",
			fake: func() *githubtest.Fake {
				return &githubtest.Fake{PullRequests: []github.PullRequest{githubtest.PR(10, "feat/x", github.StateOpen, false)}}
			},
			branch: "feat/y",
		},
		{
			name: "only a prefix-sharing branch exists",
			fake: func() *githubtest.Fake {
				return &githubtest.Fake{
					PullRequests:   []github.PullRequest{githubtest.PR(12, "feat/x-2", github.StateOpen, false)},
					ListForHeadErr: errTransport,
				}
			},
			branch: "feat/x",
		},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			fullFake := sc.fake()
			full := New(fullFake, Config{Logger: zaptest.NewLogger(t)})
			dedupFake := sc.fake()
			dedup := New(dedupFake, Config{SearchQueries: withoutHeadSearch(), Logger: zaptest.NewLogger(t)})

			fullPR, fullErr := full.FindPullRequestForBranch(context.Background(), sc.branch)
			dedupPR, dedupErr := dedup.FindPullRequestForBranch(context.Background(), sc.branch)

			require.NoError(t, fullErr)
			require.NoError(t, dedupErr)
			assert.Equal(t, StatusOf(fullPR), StatusOf(dedupPR))
			if fullPR != nil {
				require.NotNil(t, dedupPR)
				assert.Equal(t, fullPR.Number, dedupPR.Number)
			}
		})
	}
}
