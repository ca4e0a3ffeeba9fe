package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/plumbing/storer"
	"go.uber.org/zap"
)

// defaultMaxWalk bounds how many commits are inspected per branch when
// looking for its earliest unique commit
const defaultMaxWalk = 500

// Branch is a local branch as seen on this invocation
type Branch struct {
	Name      string
	Hash      string
	IsCurrent bool
	// EarliestCommit is the oldest commit time among commits unique to the
	// branch, or the tip commit time when it has none. Zero when unknown.
	EarliestCommit time.Time
}

// BranchOptions tunes commit-date discovery in Branches
type BranchOptions struct {
	// BaseBranches are tried in order; the first existing one bounds the
	// history walk of every other branch.
	BaseBranches []string
	// MaxWalk caps the commits inspected per branch (default 500)
	MaxWalk int
}

// Repository is an opened local checkout
type Repository struct {
	repo   *git.Repository
	path   string
	logger *zap.Logger
}

// Open opens the repository containing path, searching parent directories
// for the .git directory.
func Open(path string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		logger.Error("failed to open repository", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrRepositoryNotFound, err)
	}

	return &Repository{repo: repo, path: path, logger: logger}, nil
}

// CurrentBranch returns the checked out branch name, or "" for a detached or
// unborn HEAD.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", nil
	}
	return head.Name().Short(), nil
}

// RemoteURL parses the first URL configured for the named remote
func (r *Repository) RemoteURL(name string) (RemoteURL, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return RemoteURL{}, fmt.Errorf("%w: %s: %w", ErrRemoteNotFound, name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return RemoteURL{}, fmt.Errorf("%w: %s has no url", ErrRemoteNotFound, name)
	}

	return ParseRemoteURL(urls[0])
}

// Branches enumerates local branches, sorted by name, with their earliest
// known commit date.
// A branch whose history cannot be read is still returned, with a zero
// EarliestCommit.
func (r *Repository) Branches(ctx context.Context, opts BranchOptions) ([]Branch, error) {
	current, err := r.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListBranches, err)
	}

	maxWalk := opts.MaxWalk
	if maxWalk <= 0 {
		maxWalk = defaultMaxWalk
	}

	base := r.resolveBase(opts.BaseBranches)

	iter, err := r.repo.Branches()
	if err != nil {
		r.logger.Error("failed to get branches", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrListBranches, err)
	}

	var branches []Branch
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		name := ref.Name().Short()
		branch := Branch{
			Name:      name,
			Hash:      ref.Hash().String(),
			IsCurrent: name == current,
		}

		earliest, dateErr := r.earliestCommit(ref.Hash(), base, maxWalk)
		if dateErr != nil {
			r.logger.Warn("failed to read branch history", zap.String("branch", name), zap.Error(dateErr))
		} else {
			branch.EarliestCommit = earliest
		}

		branches = append(branches, branch)
		return nil
	})
	if err != nil {
		r.logger.Error("failed to iterate branches", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrListBranches, err)
	}

	sort.Slice(branches, func(i, j int) bool {
		return branches[i].Name < branches[j].Name
	})

	r.logger.Debug("branches retrieved", zap.String("path", r.path), zap.Int("count", len(branches)))
	return branches, nil
}

// resolveBase returns the tip commit of the first existing base branch
func (r *Repository) resolveBase(candidates []string) *object.Commit {
	for _, name := range candidates {
		ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), true)
		if err != nil {
			continue
		}
		commit, err := r.repo.CommitObject(ref.Hash())
		if err != nil {
			continue
		}
		return commit
	}
	return nil
}

// earliestCommit walks from tip towards the merge base with base and returns
// the oldest author or committer time seen. Without unique commits the tip
// commit time is used.
func (r *Repository) earliestCommit(tipHash plumbing.Hash, base *object.Commit, maxWalk int) (time.Time, error) {
	tip, err := r.repo.CommitObject(tipHash)
	if err != nil {
		return time.Time{}, err
	}

	stopAt := make(map[plumbing.Hash]bool)
	if base != nil {
		mergeBases, mbErr := tip.MergeBase(base)
		if mbErr != nil {
			return time.Time{}, mbErr
		}
		for _, mb := range mergeBases {
			stopAt[mb.Hash] = true
		}
	}

	if stopAt[tip.Hash] {
		return commitTime(tip), nil
	}

	commits, err := r.repo.Log(&git.LogOptions{From: tipHash})
	if err != nil {
		return time.Time{}, err
	}
	defer commits.Close()

	earliest := commitTime(tip)
	walked := 0
	err = commits.ForEach(func(c *object.Commit) error {
		if stopAt[c.Hash] || walked >= maxWalk {
			return storer.ErrStop
		}
		walked++
		if t := commitTime(c); t.Before(earliest) {
			earliest = t
		}
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return time.Time{}, err
	}

	return earliest, nil
}

// commitTime is the earlier of the author and committer timestamps
func commitTime(c *object.Commit) time.Time {
	if c.Author.When.Before(c.Committer.When) {
		return c.Author.When
	}
	return c.Committer.When
}

// DeleteBranch removes the local branch ref and its branch.<name> config
// section. The checked out branch is never deleted.
func (r *Repository) DeleteBranch(name string) error {
	current, err := r.CurrentBranch()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDeleteFailed, name, err)
	}
	if name == current {
		return fmt.Errorf("%w: %s", ErrCurrentBranch, name)
	}

	refName := plumbing.NewBranchReferenceName(name)
	if _, err := r.repo.Reference(refName, false); err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return fmt.Errorf("%w: %s", ErrBranchNotFound, name)
		}
		return fmt.Errorf("%w: %s: %w", ErrDeleteFailed, name, err)
	}

	if err := r.repo.Storer.RemoveReference(refName); err != nil {
		r.logger.Error("failed to remove branch reference", zap.String("branch", name), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrDeleteFailed, name, err)
	}

	if err := r.repo.DeleteBranch(name); err != nil && !errors.Is(err, git.ErrBranchNotFound) {
		r.logger.Warn("branch ref removed but config section could not be deleted", zap.String("branch", name), zap.Error(err))
	}

	r.logger.Info("deleted local branch", zap.String("branch", name))
	return nil
}
