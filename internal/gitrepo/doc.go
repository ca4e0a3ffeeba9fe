// Package gitrepo reads and prunes local branches of a git checkout: branch
// enumeration with per-branch commit dates, the checked out branch, remote
// owner/repository detection and local branch deletion.
package gitrepo
