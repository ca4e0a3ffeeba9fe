package matcher

import (
	"testing"

	"github.com/alan/branch-cleaner/internal/github"
	"github.com/alan/branch-cleaner/internal/github/githubtest"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	merged := githubtest.PR(10, "feat/x", github.StateClosed, true)
	closed := githubtest.PR(11, "feat/y", github.StateClosed, false)
	open := githubtest.PR(12, "feat/z", github.StateOpen, false)

	policies := map[string]Policy{
		"none":   {},
		"merged": {IncludeMerged: true},
		"closed": {IncludeClosed: true},
		"both":   {IncludeMerged: true, IncludeClosed: true},
	}

	tests := []struct {
		name string
		pr   *github.PullRequest
		want map[string]bool
	}{
		{
			name: "merged",
			pr:   &merged,
			want: map[string]bool{"none": false, "merged": true, "closed": false, "both": true},
		},
		{
			name: "closed unmerged",
			pr:   &closed,
			want: map[string]bool{"none": false, "merged": false, "closed": true, "both": true},
		},
		{
			name: "open",
			pr:   &open,
			want: map[string]bool{"none": false, "merged": false, "closed": false, "both": false},
		},
		{
			name: "no pull request",
			pr:   nil,
			want: map[string]bool{"none": false, "merged": false, "closed": false, "both": false},
		},
	}

	for _, tt := range tests {
		for policyName, policy := range policies {
			t.Run(tt.name+"/"+policyName, func(t *testing.T) {
				assert.Equal(t, tt.want[policyName], Classify(tt.pr, policy))
			})
		}
	}
}

func TestStatusOf(t *testing.T) {
	merged := githubtest.PR(10, "a", github.StateClosed, true)
	closed := githubtest.PR(11, "b", github.StateClosed, false)
	open := githubtest.PR(12, "c", github.StateOpen, false)

	assert.Equal(t, StatusMerged, StatusOf(&merged))
	assert.Equal(t, StatusClosedUnmerged, StatusOf(&closed))
	assert.Equal(t, StatusOpen, StatusOf(&open))
	assert.Equal(t, StatusNoPullRequest, StatusOf(nil))

	assert.True(t, StatusMerged.Terminal())
	assert.True(t, StatusClosedUnmerged.Terminal())
	assert.False(t, StatusOpen.Terminal())
	assert.False(t, StatusLookupError.Terminal())
}

func TestIsSafeToDelete(t *testing.T) {
	protected := NewProtectedSet("main", "master", "develop", "dev")

	tests := []struct {
		name    string
		branch  string
		current string
		want    bool
	}{
		{name: "ordinary branch", branch: "feat/x", current: "main", want: true},
		{name: "current branch not in protected set", branch: "feat/x", current: "feat/x", want: false},
		{name: "main", branch: "main", current: "feat/x", want: false},
		{name: "master", branch: "master", current: "feat/x", want: false},
		{name: "develop", branch: "develop", current: "feat/x", want: false},
		{name: "dev", branch: "dev", current: "feat/x", want: false},
		{name: "detached head", branch: "feat/x", current: "", want: true},
		{name: "prefix of protected name", branch: "development", current: "main", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSafeToDelete(tt.branch, tt.current, protected))
		})
	}
}

func TestProtectedSet(t *testing.T) {
	set := NewProtectedSet("main", "", "release")

	assert.Len(t, set, 2)
	assert.True(t, set.Contains("release"))
	assert.False(t, set.Contains(""))
	assert.False(t, NewProtectedSet().Contains("main"))
}

func TestPolicyEmpty(t *testing.T) {
	assert.True(t, Policy{}.Empty())
	assert.False(t, Policy{IncludeMerged: true}.Empty())
	assert.False(t, Policy{IncludeClosed: true}.Empty())
}
