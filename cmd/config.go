// Package cmd defines core data structures for branch-cleaner configuration.
package cmd

import "github.com/samber/lo"

// Default configuration values
const (
	// DefaultConfigFile is the configuration file looked up in the working directory
	DefaultConfigFile = ".branch-cleaner.yaml"
	// DefaultRemote is the remote used to resolve owner/repo when none is configured
	DefaultRemote = "origin"
	// DefaultBufferDays widens the batch listing window before the oldest local commit
	DefaultBufferDays = 30
)

// DefaultProtectedBranches returns the branch names that are never deleted
func DefaultProtectedBranches() []string {
	return []string{"main", "master", "develop", "dev"}
}

// LogFormat represents the encoding of log output
type LogFormat string

const (
	// LogFormatConsole renders human readable log lines
	LogFormatConsole LogFormat = "console"
	// LogFormatJSON renders one JSON object per log line
	LogFormatJSON LogFormat = "json"
)

// ParseLogFormat converts a string to LogFormat
func ParseLogFormat(s string) LogFormat {
	switch s {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatConsole // "text" is accepted as an alias for console
	}
}

// Config represents the structure of .branch-cleaner.yaml
type Config struct {
	Owner             string   `yaml:"owner" mapstructure:"owner"`
	Repo              string   `yaml:"repo" mapstructure:"repo"`
	Remote            string   `yaml:"remote,omitempty" mapstructure:"remote"`
	ProtectedBranches []string `yaml:"protected_branches,omitempty" mapstructure:"protected_branches" validate:"dive,required"`
	BufferDays        int      `yaml:"buffer_days" mapstructure:"buffer_days" validate:"gte=0,lte=3650"`
	IncludeMerged     bool     `yaml:"include_merged" mapstructure:"include_merged"`
	IncludeClosed     bool     `yaml:"include_closed" mapstructure:"include_closed"`
	GitHubToken       string   `yaml:"-" mapstructure:"github_token"`
}

// AllProtectedBranches returns the always-protected default names followed by
// the configured ones. Configuration adds to the defaults and never removes them.
func (c *Config) AllProtectedBranches() []string {
	return lo.Uniq(append(DefaultProtectedBranches(), c.ProtectedBranches...))
}

// RemoteOrDefault returns the configured remote name, falling back to origin
func (c *Config) RemoteOrDefault() string {
	if c.Remote == "" {
		return DefaultRemote
	}
	return c.Remote
}
