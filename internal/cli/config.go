package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// configFileName is looked up in the working directory and in the user
// config directory (under a roughcast/ subdirectory).
const configFileName = "roughcast.toml"

// config holds file-based defaults for CLI flags. Flags set explicitly on
// the command line always win over config values.
type config struct {
	Format     string `toml:"format"`
	Background string `toml:"background"`
	Exact      bool   `toml:"exact"`
	Seed       uint64 `toml:"seed"`
	Quality    int    `toml:"quality"`
	DPI        int    `toml:"dpi"`
	Legacy     bool   `toml:"legacy"`

	CacheDir string `toml:"cache_dir"`
	NoCache  bool   `toml:"no_cache"`

	Serve serveConfig `toml:"serve"`
}

type serveConfig struct {
	Addr string `toml:"addr"`
}

// loadConfig reads the config file at path, or searches the standard
// locations when path is empty. A missing file yields the zero config.
func loadConfig(path string) (config, error) {
	var cfg config

	if path == "" {
		path = findConfig()
		if path == "" {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// findConfig returns the first config file that exists, or the empty string.
func findConfig() string {
	candidates := []string{configFileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "roughcast", "config.toml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// cacheDir returns the artifact cache directory, creating nothing.
// An explicit dir wins; otherwise the user cache directory is used.
func cacheDir(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "roughcast"), nil
}
