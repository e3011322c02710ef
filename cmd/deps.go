package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/abhisek/coursementor/internal/feedback"
	"github.com/abhisek/coursementor/internal/gapgen"
	"github.com/abhisek/coursementor/internal/llm"
	"github.com/abhisek/coursementor/internal/logger"
	"github.com/abhisek/coursementor/internal/mentor"
	"github.com/abhisek/coursementor/internal/mentorsvc"
	"github.com/abhisek/coursementor/internal/store"
)

// deps holds everything a command needs. close releases it in reverse order.
type deps struct {
	store   *store.Store
	service *mentorsvc.Service
	log     *logger.Logger
	closers []func()
}

func (d *deps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dsn, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// buildDeps opens the store and wires the mentor service. The LLM
// collaborators are optional; without a provider extras are skipped and
// feedback uses the fixed summary.
func buildDeps(cmd *cobra.Command) (*deps, error) {
	ctx := cmd.Context()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	d := &deps{log: log}
	d.closers = append(d.closers, log.Sync)

	st, err := openStore(cmd)
	if err != nil {
		d.close()
		return nil, err
	}
	d.store = st
	d.closers = append(d.closers, func() { st.Close() })

	svcDeps := mentorsvc.Deps{
		Courses:  st.CourseRepo(),
		Progress: st.ProgressRepo(),
		Analyzer: mentor.NewAnalyzer(cfg.Mentor),
		Logger:   log,
	}

	if cfg.LLM.Enabled() {
		provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), log)
		if err != nil {
			d.close()
			return nil, fmt.Errorf("LLM provider: %w", err)
		}
		svcDeps.Generator = gapgen.New(provider, d.cache(ctx), cfg.GapGen, log)
		svcDeps.Feedback = feedback.NewWriter(provider, feedback.DefaultConfig())
	} else {
		log.Info("no LLM provider configured, extra questions disabled")
	}

	d.service = mentorsvc.New(svcDeps)
	return d, nil
}

// cache returns a Redis cache when configured and reachable, otherwise an
// in-process one.
func (d *deps) cache(ctx context.Context) gapgen.Cache {
	if cfg.Cache.RedisAddr == "" {
		return gapgen.NewMemoryCache()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Cache.RedisAddr,
		Password:    cfg.Cache.RedisPassword,
		DB:          cfg.Cache.RedisDB,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		d.log.Warn("redis unavailable, using in-memory cache", "addr", cfg.Cache.RedisAddr, "error", err)
		_ = rdb.Close()
		return gapgen.NewMemoryCache()
	}
	d.closers = append(d.closers, func() { _ = rdb.Close() })
	return gapgen.NewRedisCache(rdb, cfg.Cache.KeyPrefix)
}
