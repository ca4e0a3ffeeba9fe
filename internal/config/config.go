// Package config provides functions for loading and saving branch-cleaner configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alan/branch-cleaner/cmd"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every configuration key looked up in the environment
const EnvPrefix = "BRANCH_CLEANER"

// ErrInvalidConfig is returned when a loaded configuration fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New()

func defaults() map[string]any {
	return map[string]any{
		"owner":              "",
		"repo":               "",
		"remote":             cmd.DefaultRemote,
		"protected_branches": cmd.DefaultProtectedBranches(),
		"buffer_days":        cmd.DefaultBufferDays,
		"include_merged":     true,
		"include_closed":     false,
		"github_token":       "",
	}
}

// LoadConfig loads the configuration from the specified file, layering
// BRANCH_CLEANER_* environment variables on top. A missing file is not an
// error: defaults and environment values are used instead.
func LoadConfig(filename string) (*cmd.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			v.SetConfigFile(filename)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config cmd.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks value constraints declared on the configuration struct
func Validate(config *cmd.Config) error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Exists reports whether the configuration file is present on disk
func Exists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// SaveConfig saves the configuration to the specified file. The GitHub token
// is never written.
func SaveConfig(filename string, config *cmd.Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
