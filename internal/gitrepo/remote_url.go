package gitrepo

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v6/plumbing/transport"
)

// RemoteURL is the owner/repository pair parsed out of a remote URL
type RemoteURL struct {
	Host       string
	Owner      string
	Repository string
}

var remoteSchemes = map[string]bool{"ssh": true, "https": true, "http": true, "git": true}

// ParseRemoteURL extracts host, owner and repository from SSH
// (git@host:owner/repo.git, ssh://git@host/owner/repo.git) and HTTPS
// (https://host/owner/repo.git) remote URLs.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmed := strings.TrimSpace(remote)
	if trimmed == "" {
		return RemoteURL{}, fmt.Errorf("%w: empty url", ErrInvalidRemoteURL)
	}

	endpoint, err := transport.NewEndpoint(trimmed)
	if err != nil {
		return RemoteURL{}, fmt.Errorf("%w: %s: %w", ErrInvalidRemoteURL, remote, err)
	}
	if !remoteSchemes[endpoint.Scheme] || endpoint.Hostname() == "" {
		return RemoteURL{}, fmt.Errorf("%w: %s", ErrInvalidRemoteURL, remote)
	}

	segments := strings.Split(strings.Trim(endpoint.Path, "/"), "/")
	if len(segments) != 2 || segments[0] == "" {
		return RemoteURL{}, fmt.Errorf("%w: %s", ErrInvalidRemoteURL, remote)
	}

	repository := strings.TrimSuffix(segments[1], ".git")
	if repository == "" {
		return RemoteURL{}, fmt.Errorf("%w: %s", ErrInvalidRemoteURL, remote)
	}

	return RemoteURL{Host: endpoint.Hostname(), Owner: segments[0], Repository: repository}, nil
}
