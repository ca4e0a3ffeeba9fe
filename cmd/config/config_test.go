package config

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alan/branch-cleaner/cmd"
	internalconfig "github.com/alan/branch-cleaner/internal/config"
	"github.com/go-git/go-git/v6"
	gitconfig "github.com/go-git/go-git/v6/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func repoWithRemote(t *testing.T, url string) string {
	t.Helper()
	path := t.TempDir()
	repo, err := git.PlainInit(path, false)
	require.NoError(t, err)
	if url != "" {
		_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: cmd.DefaultRemote, URLs: []string{url}})
		require.NoError(t, err)
	}
	return path
}

func execute(t *testing.T, configFile, repoPath string, save func(string, *cmd.Config) error, args ...string) (string, error) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	if save == nil {
		save = internalconfig.SaveConfig
	}

	command := NewConfigCmd(&configFile, &repoPath, internalconfig.LoadConfig, save, func() *zap.Logger { return logger })
	var out bytes.Buffer
	command.SetOut(&out)
	command.SetErr(&out)
	command.SetArgs(args)

	err := command.Execute()
	return out.String(), err
}

func TestConfigCmd_DetectsRemote(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), cmd.DefaultConfigFile)
	repoPath := repoWithRemote(t, "https://github.com/octo/repo.git")

	out, err := execute(t, configFile, repoPath, nil)
	require.NoError(t, err)

	assert.Contains(t, out, "Successfully initialized")
	assert.Contains(t, out, "Owner: octo")

	saved, err := internalconfig.LoadConfig(configFile)
	require.NoError(t, err)
	assert.Equal(t, "octo", saved.Owner)
	assert.Equal(t, "repo", saved.Repo)
	assert.Equal(t, cmd.DefaultProtectedBranches(), saved.ProtectedBranches)
	assert.Equal(t, cmd.DefaultBufferDays, saved.BufferDays)
	assert.True(t, saved.IncludeMerged)
	assert.False(t, saved.IncludeClosed)
}

func TestConfigCmd_FlagsAndUpdate(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), cmd.DefaultConfigFile)
	repoPath := repoWithRemote(t, "git@github.com:octo/repo.git")

	_, err := execute(t, configFile, repoPath, nil,
		"--owner", "acme", "--protected", "main,release", "--buffer-days", "7", "--closed")
	require.NoError(t, err)

	out, err := execute(t, configFile, repoPath, nil, "--repo", "widgets")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully updated")

	saved, err := internalconfig.LoadConfig(configFile)
	require.NoError(t, err)
	assert.Equal(t, "acme", saved.Owner, "owner from the first run is kept")
	assert.Equal(t, "widgets", saved.Repo)
	assert.Equal(t, []string{"main", "release"}, saved.ProtectedBranches)
	assert.Equal(t, 7, saved.BufferDays)
	assert.True(t, saved.IncludeClosed)
}

func TestConfigCmd_Errors(t *testing.T) {
	tests := []struct {
		name       string
		remoteURL  string
		args       []string
		save       func(string, *cmd.Config) error
		wantErrMsg string
	}{
		{
			name:       "no remote and no owner",
			wantErrMsg: "owner is required",
		},
		{
			name:       "owner without repo",
			args:       []string{"--owner", "acme"},
			wantErrMsg: "repository is required",
		},
		{
			name:       "negative buffer",
			remoteURL:  "git@github.com:octo/repo.git",
			args:       []string{"--buffer-days=-1"},
			wantErrMsg: "invalid configuration",
		},
		{
			name:       "save failure",
			remoteURL:  "git@github.com:octo/repo.git",
			save:       func(string, *cmd.Config) error { return errors.New("save error") },
			wantErrMsg: "failed to save configuration: save error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), cmd.DefaultConfigFile)

			_, err := execute(t, configFile, repoWithRemote(t, tt.remoteURL), tt.save, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErrMsg)
			assert.False(t, internalconfig.Exists(configFile))
		})
	}
}

func TestApplySettings_OnlyChangedFlags(t *testing.T) {
	config := &cmd.Config{
		Owner:             "octo",
		ProtectedBranches: []string{"main"},
		BufferDays:        30,
		IncludeMerged:     true,
	}
	s := &settings{
		protected:     []string{"ignored"},
		bufferDays:    1,
		includeMerged: false,
		includeClosed: true,
		changed:       func(flag string) bool { return flag == "closed" },
	}

	applySettings(config, s)

	assert.Equal(t, "octo", config.Owner)
	assert.Equal(t, []string{"main"}, config.ProtectedBranches)
	assert.Equal(t, 30, config.BufferDays)
	assert.True(t, config.IncludeMerged)
	assert.True(t, config.IncludeClosed)
}
