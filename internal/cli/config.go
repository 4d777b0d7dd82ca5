package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/railtrack/pkg/errors"
	"github.com/matzehuels/railtrack/pkg/pipeline"
)

// Cache backends selectable in the config file.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the optional config file. Flags override every key.
//
//	refs = ["main", "release/*"]
//	max_commits = 5000
//	reference = "HEAD"
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//	redis_addr = "localhost:6379"
//
//	[display]
//	unicode = true
//	show_author = true
//	date_format = "2006-01-02"
type Config struct {
	Refs       []string      `toml:"refs"`
	MaxCommits int           `toml:"max_commits"`
	Reference  string        `toml:"reference"`
	Cache      CacheConfig   `toml:"cache"`
	Display    DisplayConfig `toml:"display"`
}

// CacheConfig selects and configures the history cache.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	TTL       string `toml:"ttl"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
}

// DisplayConfig configures the terminal output.
type DisplayConfig struct {
	Unicode    bool   `toml:"unicode"`
	ShowAuthor bool   `toml:"show_author"`
	ShowDate   bool   `toml:"show_date"`
	DateFormat string `toml:"date_format"`
}

// defaultConfig returns the values used when neither the config file nor a
// flag sets a key.
func defaultConfig() Config {
	return Config{
		Reference: pipeline.DefaultReference,
		Cache:     CacheConfig{Backend: backendFile},
		Display:   DisplayConfig{Unicode: true, ShowDate: true},
	}
}

// loadConfig reads path on top of the defaults. An empty path reads the
// default location and a missing default file is not an error. Keys the
// config does not know are logged as warnings.
func loadConfig(path string, logger *log.Logger) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return defaultConfig(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, errs.New(errs.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	for _, key := range md.Undecoded() {
		logger.Warn("unknown config key", "key", key.String(), "file", path)
	}

	if err := cfg.validate(); err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "config %s", path)
	}
	logger.Debug("loaded config", "file", path)
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case backendFile, backendRedis, backendNone:
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if _, err := c.ttl(); err != nil {
		return err
	}
	if err := errs.ValidateMaxCommits(c.MaxCommits); err != nil {
		return err
	}
	for _, r := range c.Refs {
		if err := errs.ValidateRefPattern(r); err != nil {
			return err
		}
	}
	return nil
}

// ttl parses the cache TTL. Empty means the pipeline default.
func (c Config) ttl() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, errs.New(errs.ErrCodeInvalidConfig, "invalid cache ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// configDir returns the config directory using the XDG standard
// (~/.config/railtrack/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// splitList parses a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
