package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestXDGDirs(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name  string
		env   string
		value string
		dirFn func() (string, error)
		want  string
	}{
		{"cache default", "XDG_CACHE_HOME", "", cacheDir, filepath.Join(home, ".cache", appName)},
		{"cache XDG", "XDG_CACHE_HOME", "/tmp/custom-cache", cacheDir, filepath.Join("/tmp/custom-cache", appName)},
		{"config default", "XDG_CONFIG_HOME", "", configDir, filepath.Join(home, ".config", appName)},
		{"config XDG", "XDG_CONFIG_HOME", "/tmp/custom-config", configDir, filepath.Join("/tmp/custom-config", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			got, err := tt.dirFn()
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadConfig_DefaultLocation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if err := os.MkdirAll(filepath.Join(dir, appName), 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, appName, "config.toml")
	if err := os.WriteFile(path, []byte("max_commits = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig("", testCLI().Logger)
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}
	if cfg.MaxCommits != 7 {
		t.Errorf("MaxCommits = %d, want 7 from the default location", cfg.MaxCommits)
	}
}
