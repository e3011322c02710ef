package gapgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/coursementor/internal/llm"
	"github.com/abhisek/coursementor/internal/logger"
	"github.com/abhisek/coursementor/internal/mentor"
)

// ErrNoValidQuestions means the LLM answered but every question failed
// validation.
var ErrNoValidQuestions = errors.New("no valid questions generated")

// LLMGenerator implements Generator with one structured LLM call per batch.
type LLMGenerator struct {
	provider llm.Provider
	cache    Cache
	config   Config
	log      *logger.Logger
}

// New creates an LLMGenerator. cache may be nil to disable caching.
func New(provider llm.Provider, cache Cache, cfg Config, log *logger.Logger) *LLMGenerator {
	if log == nil {
		log = logger.NewNop()
	}
	return &LLMGenerator{
		provider: provider,
		cache:    cache,
		config:   cfg,
		log:      log.With("service", "gapgen"),
	}
}

func (g *LLMGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	targets := PlanTargets(req.WeakAreas, req.Count)
	if len(targets) == 0 {
		return &Result{}, nil
	}

	key := Fingerprint(req, targets)
	if qs, ok := g.cached(ctx, key); ok {
		return &Result{Questions: qs, CacheHit: true}, nil
	}

	resp, err := g.provider.Generate(llm.WithPurpose(llm.WithCourse(ctx, req.CourseSlug), "gap-questions"), llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserPrompt(buildUserMessage(req, targets)),
		Schema:      GapQuestionsSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	out, err := llm.Decode[batchOutput](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	chapters := make(map[int]bool, len(req.WeakAreas))
	for _, a := range req.WeakAreas {
		chapters[a.ChapterNumber] = true
	}

	result := &Result{}
	for i, raw := range out.Questions {
		if len(result.Questions) == req.Count {
			break
		}
		q, verr := toQuestion(i, raw, chapters, g.config.MaxTextLen)
		if verr != nil {
			g.log.Debug("dropping generated question", "course", req.CourseSlug, "reason", verr.Error())
			continue
		}
		q.ID = fmt.Sprintf("gap_%d", len(result.Questions)+1)
		result.Questions = append(result.Questions, q)
	}
	if len(result.Questions) == 0 {
		return nil, ErrNoValidQuestions
	}
	if dropped := len(out.Questions) - len(result.Questions); dropped > 0 {
		g.log.Info("generated fewer questions than returned", "course", req.CourseSlug,
			"kept", len(result.Questions), "returned", len(out.Questions), "requested", req.Count)
	}

	if g.cache != nil && g.config.CacheTTL > 0 {
		if err := g.cache.Set(ctx, key, result.Questions, g.config.CacheTTL); err != nil {
			g.log.Warn("gap question cache write failed", "error", err)
		}
	}
	return result, nil
}

func (g *LLMGenerator) cached(ctx context.Context, key string) ([]mentor.GapQuizQuestion, bool) {
	if g.cache == nil || g.config.CacheTTL <= 0 {
		return nil, false
	}
	qs, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		g.log.Warn("gap question cache read failed", "error", err)
		return nil, false
	}
	return qs, ok && len(qs) > 0
}
