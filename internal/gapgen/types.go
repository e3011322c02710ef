// Package gapgen generates reinforcement questions aimed at a learner's
// weak chapters and concepts.
package gapgen

import (
	"context"

	"github.com/abhisek/coursementor/internal/mentor"
)

// Request describes the extras wanted for one gap quiz.
type Request struct {
	CourseSlug  string
	CourseTopic string
	Difficulty  string

	// WeakAreas in analyzer order: weakest chapter first, concepts most
	// missed first.
	WeakAreas []mentor.WeakArea

	Count int
}

// Result holds the generated questions in the order they should be asked.
type Result struct {
	Questions []mentor.GapQuizQuestion
	CacheHit  bool
}

// Target is one chapter/concept pair a question should address.
type Target struct {
	Chapter      int    `json:"chapter"`
	ChapterTitle string `json:"chapter_title"`
	Concept      string `json:"concept"`
}

// Generator produces extra gap-quiz questions.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}
