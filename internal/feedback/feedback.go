// Package feedback writes the mentor's short prose summary of a learner's
// weak areas.
package feedback

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/coursementor/internal/llm"
	"github.com/abhisek/coursementor/internal/mentor"
)

// Config controls the Writer.
type Config struct {
	MaxTokens   int
	Temperature float64

	// MaxConcepts caps the concepts listed per weak chapter in the prompt.
	MaxConcepts int
}

func DefaultConfig() Config {
	return Config{MaxTokens: 600, Temperature: 0.8, MaxConcepts: 3}
}

// FeedbackSchema is the structured output of a feedback call.
var FeedbackSchema = &llm.Schema{
	Name:        "mentor-feedback",
	Description: "Encouraging mentor feedback on a learner's weak areas",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback_text": map[string]any{
				"type":        "string",
				"description": "3-6 sentences: encouragement, the specific areas to review, and a study recommendation",
			},
		},
		"required":             []any{"feedback_text"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are a supportive learning mentor.
Be encouraging but honest. Name the chapters and concepts the learner should review, weakest first.
Recommend one concrete study action. Write 3 to 6 sentences of plain prose, no lists, no headings.`

// Writer produces feedback prose with an LLM.
type Writer struct {
	provider llm.Provider
	cfg      Config
}

func NewWriter(provider llm.Provider, cfg Config) *Writer {
	return &Writer{provider: provider, cfg: cfg}
}

type feedbackOutput struct {
	FeedbackText string `json:"feedback_text"`
}

// Write generates feedback for analysis.
func (w *Writer) Write(ctx context.Context, analysis *mentor.MentorAnalysis) (string, error) {
	if analysis == nil {
		return "", fmt.Errorf("no analysis to write feedback for")
	}

	resp, err := w.provider.Generate(llm.WithPurpose(llm.WithCourse(ctx, analysis.CourseSlug), "mentor-feedback"), llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserPrompt(buildUserMessage(analysis, w.cfg.MaxConcepts)),
		Schema:      FeedbackSchema,
		MaxTokens:   w.cfg.MaxTokens,
		Temperature: w.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("feedback generation: %w", err)
	}

	out, err := llm.Decode[feedbackOutput](resp)
	if err != nil {
		return "", fmt.Errorf("parse feedback response: %w", err)
	}
	text := strings.TrimSpace(out.FeedbackText)
	if text == "" {
		return "", fmt.Errorf("feedback generation: empty text")
	}
	return text, nil
}

func buildUserMessage(a *mentor.MentorAnalysis, maxConcepts int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Course: %s\n", a.CourseTopic)
	fmt.Fprintf(&b, "Chapters completed: %d of %d\n", a.TotalChaptersCompleted, a.TotalChapters)
	fmt.Fprintf(&b, "Average score: %.0f%%\n", a.AverageScore*100)
	fmt.Fprintf(&b, "Questions to retry: %d\n", a.TotalWrongAnswers)

	if len(a.WeakAreas) == 0 {
		b.WriteString("\nWeak areas: none\n")
		return b.String()
	}

	b.WriteString("\nWeak areas:\n")
	for _, area := range a.WeakAreas {
		fmt.Fprintf(&b, "- %s (score %.0f%%)", area.ChapterTitle, area.Score*100)
		if names := conceptNames(area.WeakConcepts, maxConcepts); len(names) > 0 {
			fmt.Fprintf(&b, ": %s", strings.Join(names, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func conceptNames(cs []mentor.WeakConcept, max int) []string {
	if max > 0 && len(cs) > max {
		cs = cs[:max]
	}
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Concept
	}
	return names
}
