package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drainstack/pkg/cache"
	"github.com/matzehuels/drainstack/pkg/pipeline"
	"github.com/matzehuels/drainstack/pkg/server"
)

// Config is the optional TOML config file. Flags set on the command line
// take precedence over it.
//
//	builder = "iterative"
//	workers = 4
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "72h"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Builder  string       `toml:"builder"`
	MaxDepth int          `toml:"max_depth"`
	Workers  int          `toml:"workers"`
	Cache    CacheConfig  `toml:"cache"`
	Server   ServerConfig `toml:"server"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       duration `toml:"ttl"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr    string `toml:"addr"`
	Workers int    `toml:"workers"`
}

// duration decodes TOML strings such as "72h" into a time.Duration.
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Builder: pipeline.DefaultBuilder,
		Workers: pipeline.DefaultWorkers,
		Cache:   CacheConfig{Backend: cache.BackendFile},
		Server:  ServerConfig{Addr: server.DefaultAddr},
	}
}

// loadConfig reads path over the defaults. A missing file is only an error
// when the path was given explicitly.
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendNone:
	default:
		return fmt.Errorf("cache.backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers: must not be negative")
	}
	return nil
}

// orderFlags are the flags shared by commands that compute a stack order.
type orderFlags struct {
	roots    []int
	builder  string
	maxDepth int
	workers  int
	noCache  bool
	refresh  bool
}

func (f *orderFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntSliceVar(&f.roots, "roots", nil, "traversal roots in block order (default: every self-loop)")
	cmd.Flags().StringVar(&f.builder, "builder", pipeline.DefaultBuilder, "traversal: iterative, recursive")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "recursion limit for the recursive builder (negative: unbounded)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", pipeline.DefaultWorkers, "roots traversed concurrently")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached results")
}

// options merges flags over the config file: a flag wins only when it was
// set explicitly.
func (f *orderFlags) options(cmd *cobra.Command, cfg *Config) pipeline.Options {
	opts := pipeline.Options{
		Roots:    f.roots,
		Builder:  f.builder,
		MaxDepth: f.maxDepth,
		Workers:  f.workers,
		Refresh:  f.refresh,
	}
	flags := cmd.Flags()
	if !flags.Changed("builder") && cfg.Builder != "" {
		opts.Builder = cfg.Builder
	}
	if !flags.Changed("max-depth") && cfg.MaxDepth != 0 {
		opts.MaxDepth = cfg.MaxDepth
	}
	if !flags.Changed("workers") && cfg.Workers != 0 {
		opts.Workers = cfg.Workers
	}
	return opts
}
