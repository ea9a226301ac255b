package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drainstack/pkg/cache"
	"github.com/matzehuels/drainstack/pkg/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, err := loadConfig(path, false)
	if err != nil {
		t.Fatalf("implicit missing config: %v", err)
	}
	if cfg.Builder != pipeline.DefaultBuilder {
		t.Errorf("Builder = %q, want %q", cfg.Builder, pipeline.DefaultBuilder)
	}
	if cfg.Cache.Backend != cache.BackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, cache.BackendFile)
	}

	if _, err := loadConfig(path, true); err == nil {
		t.Error("explicit missing config should fail")
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
builder = "recursive"
max_depth = 500
workers = 4

[cache]
backend = "none"
ttl = "72h"

[server]
addr = ":9090"
workers = 16
`)

	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	want := &Config{
		Builder:  "recursive",
		MaxDepth: 500,
		Workers:  4,
		Cache:    CacheConfig{Backend: cache.BackendNone, TTL: duration{72 * time.Hour}},
		Server:   ServerConfig{Addr: ":9090", Workers: 16},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "bulider = \"iterative\"\n", "unknown keys"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "cache.backend"},
		{"bad ttl", "[cache]\nttl = \"soon\"\n", "config"},
		{"negative workers", "workers = -1\n", "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body), true)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestOrderFlagsPrecedence(t *testing.T) {
	cfg := defaultConfig()
	cfg.Builder = "recursive"
	cfg.Workers = 8
	cfg.MaxDepth = 100

	newCmd := func(args ...string) (*cobra.Command, *orderFlags) {
		var f orderFlags
		cmd := &cobra.Command{Use: "test"}
		f.register(cmd)
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("ParseFlags: %v", err)
		}
		return cmd, &f
	}

	cmd, f := newCmd()
	opts := f.options(cmd, cfg)
	if opts.Builder != "recursive" || opts.Workers != 8 || opts.MaxDepth != 100 {
		t.Errorf("config values not applied: %+v", opts)
	}

	cmd, f = newCmd("--builder", "iterative", "--workers", "2", "--roots", "3,1", "--refresh")
	opts = f.options(cmd, cfg)
	if opts.Builder != "iterative" {
		t.Errorf("Builder = %q, want flag value iterative", opts.Builder)
	}
	if opts.Workers != 2 {
		t.Errorf("Workers = %d, want flag value 2", opts.Workers)
	}
	if opts.MaxDepth != 100 {
		t.Errorf("MaxDepth = %d, want config value 100", opts.MaxDepth)
	}
	if diff := cmp.Diff([]int{3, 1}, opts.Roots); diff != "" {
		t.Errorf("Roots mismatch (-want +got):\n%s", diff)
	}
	if !opts.Refresh {
		t.Error("Refresh should be set")
	}
}
