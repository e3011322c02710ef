package store

import (
	"time"

	"gorm.io/datatypes"

	"github.com/abhisek/coursementor/internal/mentor"
)

type courseRow struct {
	Slug       string                                         `gorm:"primaryKey;size:191"`
	Topic      string                                         `gorm:"not null"`
	Difficulty string                                         `gorm:"not null;default:''"`
	Chapters   datatypes.JSONType[[]mentor.ChapterDefinition] `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (courseRow) TableName() string { return "courses" }

type chapterProgressRow struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         string `gorm:"size:191;not null;uniqueIndex:idx_progress_user_course_chapter"`
	CourseSlug     string `gorm:"size:191;not null;uniqueIndex:idx_progress_user_course_chapter"`
	ChapterNumber  int    `gorm:"not null;uniqueIndex:idx_progress_user_course_chapter"`
	ChapterTitle   string
	Completed      bool `gorm:"not null;default:false"`
	Score          *float64
	TotalQuestions int                                         `gorm:"not null;default:0"`
	CorrectAnswers int                                         `gorm:"not null;default:0"`
	Answers        datatypes.JSONType[[]mentor.AnswerRecord] `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (chapterProgressRow) TableName() string { return "chapter_progress" }

func (r chapterProgressRow) record() mentor.ChapterProgressRecord {
	score := mentor.DefaultScore
	if r.Score != nil {
		score = *r.Score
	}
	return mentor.ChapterProgressRecord{
		ChapterNumber:  r.ChapterNumber,
		ChapterTitle:   r.ChapterTitle,
		Completed:      r.Completed,
		Score:          score,
		TotalQuestions: r.TotalQuestions,
		CorrectAnswers: r.CorrectAnswers,
		Answers:        r.Answers.Data(),
	}
}

type llmRequestEventRow struct {
	ID           int       `gorm:"primaryKey"`
	Timestamp    time.Time `gorm:"not null;index"`
	Provider     string
	Model        string `gorm:"index"`
	Purpose      string `gorm:"index"`
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string `gorm:"type:text"`
	ResponseBody string `gorm:"type:text"`
}

func (llmRequestEventRow) TableName() string { return "llm_request_events" }
