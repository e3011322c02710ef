// Package config assembles runtime configuration from a dotenv file and
// MENTOR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/coursementor/internal/gapgen"
	"github.com/abhisek/coursementor/internal/llm"
	"github.com/abhisek/coursementor/internal/mentor"
	"github.com/abhisek/coursementor/internal/store"
)

// Config is everything the binary needs at startup.
type Config struct {
	Mentor mentor.Config
	LLM    llm.Config
	GapGen gapgen.Config
	Store  StoreConfig
	Cache  CacheConfig
	HTTP   HTTPConfig

	// LogMode is "dev" or "prod".
	LogMode string
}

type StoreConfig struct {
	// DSN is a SQLite path or a postgres:// URL. Empty resolves to
	// store.DefaultDBPath.
	DSN string
}

type CacheConfig struct {
	// RedisAddr enables the Redis cache. Empty means in-process cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Default returns the configuration with no environment applied.
func Default() Config {
	return Config{
		Mentor: mentor.DefaultConfig(),
		LLM:    llm.DefaultConfig(),
		GapGen: gapgen.DefaultConfig(),
		Cache:  CacheConfig{KeyPrefix: "mentor:gapgen:"},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		LogMode: "dev",
	}
}

// Load reads envFile (a missing file is fine), applies the environment
// over Default and validates the result.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	cfg.LLM = llm.ConfigFromEnv()

	var errs []error
	intVar(&cfg.Mentor.ChaptersThreshold, "MENTOR_CHAPTERS_THRESHOLD", &errs)
	floatVar(&cfg.Mentor.WeakScoreThreshold, "MENTOR_WEAK_SCORE_THRESHOLD", &errs)

	stringVar(&cfg.Store.DSN, "MENTOR_DB")

	stringVar(&cfg.Cache.RedisAddr, "MENTOR_REDIS_ADDR")
	stringVar(&cfg.Cache.RedisPassword, "MENTOR_REDIS_PASSWORD")
	intVar(&cfg.Cache.RedisDB, "MENTOR_REDIS_DB", &errs)
	stringVar(&cfg.Cache.KeyPrefix, "MENTOR_REDIS_PREFIX")
	durationVar(&cfg.GapGen.CacheTTL, "MENTOR_EXTRAS_CACHE_TTL", &errs)

	stringVar(&cfg.HTTP.Addr, "MENTOR_HTTP_ADDR")
	durationVar(&cfg.HTTP.ReadTimeout, "MENTOR_HTTP_READ_TIMEOUT", &errs)
	durationVar(&cfg.HTTP.WriteTimeout, "MENTOR_HTTP_WRITE_TIMEOUT", &errs)

	stringVar(&cfg.LogMode, "MENTOR_LOG_MODE")

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Mentor.Validate(); err != nil {
		return fmt.Errorf("mentor: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http: address is required")
	}
	if c.GapGen.CacheTTL < 0 {
		return fmt.Errorf("gapgen: cache TTL must not be negative")
	}
	return nil
}

// ResolveDSN returns the configured DSN or the default database path.
func (c Config) ResolveDSN() (string, error) {
	if c.Store.DSN != "" {
		return c.Store.DSN, nil
	}
	return store.DefaultDBPath()
}

func stringVar(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func intVar(dst *int, key string, errs *[]error) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = n
}

func floatVar(dst *float64, key string, errs *[]error) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = f
}

func durationVar(dst *time.Duration, key string, errs *[]error) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = d
}
