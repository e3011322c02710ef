package mentor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DefaultScore is the chapter score assumed when a stored progress record
// carries none. A chapter is not weak unless its score proves otherwise.
const DefaultScore = 1.0

// QuestionType identifies how a question is answered.
type QuestionType string

const (
	QuestionTypeMCQ       QuestionType = "mcq"
	QuestionTypeTrueFalse QuestionType = "true_false"
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	return t == QuestionTypeMCQ || t == QuestionTypeTrueFalse
}

// Difficulty is the self-assessed difficulty of a generated question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// AnswerValue is a correct answer that is either a string (mcq option
// letter or text) or a boolean (true/false questions). It marshals to the
// bare JSON string or boolean.
type AnswerValue struct {
	Text   string
	Bool   bool
	IsBool bool
}

// TextAnswer returns a string-valued answer.
func TextAnswer(s string) AnswerValue { return AnswerValue{Text: s} }

// BoolAnswer returns a boolean-valued answer.
func BoolAnswer(b bool) AnswerValue { return AnswerValue{Bool: b, IsBool: true} }

// String renders the answer the way it appears to a learner.
func (a AnswerValue) String() string {
	if a.IsBool {
		return strconv.FormatBool(a.Bool)
	}
	return a.Text
}

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	if a.IsBool {
		return json.Marshal(a.Bool)
	}
	return json.Marshal(a.Text)
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = AnswerValue{}
		return nil
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*a = BoolAnswer(b)
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = TextAnswer(s)
		return nil
	}
	return fmt.Errorf("correct answer must be a string or boolean, got %s", data)
}

// AnswerRecord is a single answered question inside a chapter attempt.
// The original question's type, options, correct answer and explanation are
// carried along so a missed question can be rebuilt as a retry.
type AnswerRecord struct {
	QuestionID    string       `json:"question_id"`
	QuestionText  string       `json:"question_text"`
	IsCorrect     bool         `json:"is_correct"`
	UserAnswer    string       `json:"user_answer"`
	QuestionType  QuestionType `json:"question_type,omitempty"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer AnswerValue  `json:"correct_answer"`
	Explanation   string       `json:"explanation,omitempty"`
}

// ChapterProgressRecord is a learner's result on one chapter.
type ChapterProgressRecord struct {
	ChapterNumber  int            `json:"chapter_number"`
	ChapterTitle   string         `json:"chapter_title"`
	Completed      bool           `json:"completed"`
	Score          float64        `json:"score"`
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	Answers        []AnswerRecord `json:"answers"`
}

// ChapterDefinition is the course-side description of a chapter.
type ChapterDefinition struct {
	Number      int      `json:"number"`
	Title       string   `json:"title"`
	KeyConcepts []string `json:"key_concepts"`
}

// CourseMentorStats is the pre-aggregated view of one learner on one course.
type CourseMentorStats struct {
	CompletedChapters int                     `json:"completed_chapters"`
	TotalChapters     int                     `json:"total_chapters"`
	AverageScore      float64                 `json:"average_score"`
	ProgressByChapter []ChapterProgressRecord `json:"progress_by_chapter"`
	Chapters          []ChapterDefinition     `json:"chapters"`
	CourseTopic       string                  `json:"course_topic"`
	Difficulty        string                  `json:"difficulty"`
	TotalWrongAnswers int                     `json:"total_wrong_answers"`
}

// WeakConcept is a chapter concept matched by at least one wrong answer.
type WeakConcept struct {
	Concept         string   `json:"concept"`
	WrongCount      int      `json:"wrong_count"`
	TotalQuestions  int      `json:"total_questions"`
	SampleQuestions []string `json:"sample_questions"`
}

// WeakArea is a completed chapter scored below the weak threshold.
type WeakArea struct {
	ChapterNumber  int           `json:"chapter_number"`
	ChapterTitle   string        `json:"chapter_title"`
	Score          float64       `json:"score"`
	QuestionsTotal int           `json:"questions_total"`
	QuestionsWrong int           `json:"questions_wrong"`
	WeakConcepts   []WeakConcept `json:"weak_concepts"`
}

// MentorAnalysis is the full weak-area profile of a learner on a course.
type MentorAnalysis struct {
	CourseSlug             string     `json:"course_slug"`
	CourseTopic            string     `json:"course_topic"`
	Difficulty             string     `json:"difficulty"`
	TotalChaptersCompleted int        `json:"total_chapters_completed"`
	TotalChapters          int        `json:"total_chapters"`
	AverageScore           float64    `json:"average_score"`
	WeakAreas              []WeakArea `json:"weak_areas"`
	TotalWrongAnswers      int        `json:"total_wrong_answers"`
	MentorAvailable        bool       `json:"mentor_available"`
}

// MentorStatus is the cheap summary used to gate the mentor UI.
type MentorStatus struct {
	MentorAvailable   bool    `json:"mentor_available"`
	ChaptersCompleted int     `json:"chapters_completed"`
	ChaptersRequired  int     `json:"chapters_required"`
	AverageScore      float64 `json:"average_score"`
	WeakAreasCount    int     `json:"weak_areas_count"`
	TotalWrongAnswers int     `json:"total_wrong_answers"`
}

// RawWrongAnswer is a missed question as fetched from the data store.
type RawWrongAnswer struct {
	QuestionID    string
	QuestionText  string
	QuestionType  QuestionType
	Options       []string
	UserAnswer    string
	CorrectAnswer AnswerValue
	Explanation   string
	ChapterNumber int
	ChapterTitle  string
}

// WrongAnswer is a free retry item in a gap quiz.
type WrongAnswer struct {
	QuestionID    string       `json:"question_id"`
	QuestionText  string       `json:"question_text"`
	QuestionType  QuestionType `json:"question_type"`
	Options       []string     `json:"options,omitempty"`
	UserAnswer    string       `json:"user_answer"`
	CorrectAnswer AnswerValue  `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
	ChapterNumber int          `json:"chapter_number"`
	ChapterTitle  string       `json:"chapter_title"`
	Hint          *string      `json:"hint,omitempty"`
}

// GapQuizQuestion is a generated reinforcement question.
type GapQuizQuestion struct {
	ID            string       `json:"id"`
	QuestionType  QuestionType `json:"question_type"`
	Difficulty    Difficulty   `json:"difficulty"`
	QuestionText  string       `json:"question_text"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer AnswerValue  `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
	Hint          *string      `json:"hint,omitempty"`
	SourceChapter int          `json:"source_chapter"`
	TargetConcept string       `json:"target_concept"`
}

// GapQuiz is a remediation quiz of free retries plus optional extras.
type GapQuiz struct {
	ID                  string            `json:"id"`
	CourseSlug          string            `json:"course_slug"`
	UserID              string            `json:"user_id"`
	WrongAnswers        []WrongAnswer     `json:"wrong_answers"`
	ExtraQuestions      []GapQuizQuestion `json:"extra_questions"`
	TotalQuestions      int               `json:"total_questions"`
	WrongAnswersCount   int               `json:"wrong_answers_count"`
	ExtraQuestionsCount int               `json:"extra_questions_count"`
	IncludeHints        bool              `json:"include_hints"`
	CacheHit            bool              `json:"cache_hit"`
	CreatedAt           time.Time         `json:"created_at"`
}
