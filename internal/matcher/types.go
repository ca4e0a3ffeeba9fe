package matcher

import (
	"errors"

	"github.com/alan/branch-cleaner/internal/github"
)

// ErrResolutionFailed is returned when every lookup strategy for a branch failed
var ErrResolutionFailed = errors.New("all pull request lookup strategies failed")

// Status is the outcome of matching one local branch
type Status string

const (
	StatusNoPullRequest  Status = "no-pull-request"
	StatusMerged         Status = "merged"
	StatusClosedUnmerged Status = "closed-unmerged"
	StatusOpen           Status = "open"
	StatusLookupError    Status = "lookup-error"
)

// Terminal reports whether the status is merged or closed-unmerged
func (s Status) Terminal() bool {
	return s == StatusMerged || s == StatusClosedUnmerged
}

// Policy selects which terminal states qualify a branch for deletion
type Policy struct {
	IncludeMerged bool
	IncludeClosed bool // closed and not merged
}

// Empty reports whether the policy selects nothing
func (p Policy) Empty() bool {
	return !p.IncludeMerged && !p.IncludeClosed
}

// Classification is the resolved state of one local branch
type Classification struct {
	Branch      string
	Status      Status
	PullRequest *github.PullRequest
	// Err is set only for StatusLookupError
	Err error
}

// Resolved classifies branch from its full pull request record, or as
// no-pull-request when pr is nil.
func Resolved(branch string, pr *github.PullRequest) Classification {
	return Classification{Branch: branch, Status: StatusOf(pr), PullRequest: pr}
}

// Failed records a lookup failure for branch
func Failed(branch string, err error) Classification {
	return Classification{Branch: branch, Status: StatusLookupError, Err: err}
}

// ProtectedSet holds branch names that are never deleted
type ProtectedSet map[string]struct{}

// NewProtectedSet builds a set from names, ignoring empty entries
func NewProtectedSet(names ...string) ProtectedSet {
	set := make(ProtectedSet, len(names))
	for _, name := range names {
		if name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// Contains reports whether name is protected
func (p ProtectedSet) Contains(name string) bool {
	_, ok := p[name]
	return ok
}
