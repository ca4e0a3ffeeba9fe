package gitrepo

import "errors"

var (
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrListBranches       = errors.New("failed to list branches")
	ErrRemoteNotFound     = errors.New("remote not found")
	ErrInvalidRemoteURL   = errors.New("invalid remote url")
	ErrBranchNotFound     = errors.New("branch not found")
	ErrCurrentBranch      = errors.New("refusing to delete the checked out branch")
	ErrDeleteFailed       = errors.New("failed to delete branch")
)
