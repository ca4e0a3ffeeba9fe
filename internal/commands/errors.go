package commands

import "errors"

var (
	ErrMissingToken      = errors.New("a GitHub token is required: set GH_TOKEN, GITHUB_TOKEN or GITHUB_API_TOKEN")
	ErrEmptyPolicy       = errors.New("nothing to delete: enable --merged and/or --closed")
	ErrMissingRepository = errors.New("could not determine GitHub owner/repo, run 'branch-cleaner config' or pass --remote")
)
