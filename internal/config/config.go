package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pluginkit/plugclone/internal/attribute"
	"github.com/pluginkit/plugclone/internal/branding"
	"github.com/pluginkit/plugclone/internal/substitute"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// ErrUnknownKey is returned for keys that are not configurable defaults.
var ErrUnknownKey = errors.New("unknown config key")

var v = newViper()

func newViper() *viper.Viper {
	nv := viper.New()
	nv.SetConfigType(fileType)
	nv.SetEnvPrefix(branding.EnvPrefix())
	for _, a := range attribute.Optional() {
		// BindEnv only fails when given no key.
		_ = nv.BindEnv(string(a))
	}
	return nv
}

// Dir returns the config directory: $PLUGCLONE_HOME if set, else ~/.plugclone.
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("home")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load reads the config file, if any, and environment overrides. A missing
// file is not an error; an unreadable one is.
func Load() error {
	v = newViper()
	v.SetConfigFile(FilePath())

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", FilePath(), err)
	}
	return nil
}

// Keys returns the configurable keys in the order the clone command applies
// them.
func Keys() []string {
	opt := attribute.Optional()
	keys := make([]string, len(opt))
	for i, a := range opt {
		keys[i] = string(a)
	}
	return keys
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return v.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	v.Set(key, value)

	configFile := FilePath()
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Defaults returns a job for every configured key, in Keys order.
func Defaults() []substitute.Job {
	var jobs []substitute.Job
	for _, a := range attribute.Optional() {
		if val := v.GetString(string(a)); val != "" {
			jobs = append(jobs, substitute.Job{Attribute: a, Value: val})
		}
	}
	return jobs
}

// Origin names where the value of key comes from: its environment variable
// when that is set, otherwise the config file. Empty when key is unset.
func Origin(key string) string {
	if env := branding.EnvVar(key); os.Getenv(env) != "" {
		return env
	}
	if v.InConfig(key) {
		return FilePath()
	}
	return ""
}

func checkKey(key string) error {
	for _, k := range Keys() {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("%w %q (valid keys: %v)", ErrUnknownKey, key, Keys())
}
