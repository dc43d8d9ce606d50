// Package config loads client configuration the same way across CLI and UI:
// a .sphere file walked up from the working directory, overridable through
// SPHERE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config carries everything the client needs to reach its collaborators.
type Config struct {
	// BasePath roots local state: preferences, session, and the filesystem
	// document mirror.
	BasePath string `json:"path"`

	// Store selects the docstore backend ("memory" or "filesystem").
	Store string `json:"store"`

	// Blob selects the blobstore backend ("memory" or "s3").
	Blob string `json:"blob"`

	S3Bucket    string `json:"s3Bucket"`
	S3Region    string `json:"s3Region"`
	S3Prefix    string `json:"s3Prefix"`
	S3Endpoint  string `json:"s3Endpoint"`
	S3AccessKey string `json:"s3AccessKey"`
	S3SecretKey string `json:"s3SecretKey"`
}

// Load reads configuration, applying defaults for anything unset.
func Load() (Config, error) {
	viper.SetDefault("path", "~/.sphere.d")
	viper.SetDefault("store", "filesystem")
	viper.SetDefault("blob", "memory")
	viper.SetConfigName(".sphere") // .yaml is implicit
	viper.SetEnvPrefix("SPHERE")
	viper.AutomaticEnv()

	if override := os.Getenv("SPHERE_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")
	viper.AddConfigPath("$HOME")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("config: read config file: %w", err)
		}
	}

	base, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return Config{}, fmt.Errorf("config: expand base path: %w", err)
	}

	return Config{
		BasePath:    base,
		Store:       strings.ToLower(viper.GetString("store")),
		Blob:        strings.ToLower(viper.GetString("blob")),
		S3Bucket:    viper.GetString("s3bucket"),
		S3Region:    viper.GetString("s3region"),
		S3Prefix:    viper.GetString("s3prefix"),
		S3Endpoint:  viper.GetString("s3endpoint"),
		S3AccessKey: viper.GetString("s3accesskey"),
		S3SecretKey: viper.GetString("s3secretkey"),
	}, nil
}

// DocumentsPath roots the filesystem docstore mirror.
func (c Config) DocumentsPath() string {
	return filepath.Join(c.BasePath, "documents")
}

// PrefsPath roots the preference store.
func (c Config) PrefsPath() string {
	return filepath.Join(c.BasePath, "prefs")
}

// SessionPath locates the saved CLI session.
func (c Config) SessionPath() string {
	return filepath.Join(c.BasePath, "session.json")
}
