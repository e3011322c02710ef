package store

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abhisek/coursementor/internal/mentor"
)

type progressRepo struct {
	db *gorm.DB
}

func (r *progressRepo) SaveChapterProgress(ctx context.Context, p ChapterProgress) error {
	if p.UserID == "" || p.CourseSlug == "" {
		return fmt.Errorf("user id and course slug are required")
	}
	row := chapterProgressRow{
		UserID:         p.UserID,
		CourseSlug:     p.CourseSlug,
		ChapterNumber:  p.ChapterNumber,
		ChapterTitle:   p.ChapterTitle,
		Completed:      p.Completed,
		Score:          p.Score,
		TotalQuestions: p.TotalQuestions,
		CorrectAnswers: p.CorrectAnswers,
		Answers:        datatypes.NewJSONType(p.Answers),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_slug"}, {Name: "chapter_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"chapter_title", "completed", "score", "total_questions",
			"correct_answers", "answers", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save progress %s/%s/%d: %w", p.UserID, p.CourseSlug, p.ChapterNumber, err)
	}
	return nil
}

func (r *progressRepo) loadProgress(ctx context.Context, userID, courseSlug string) ([]chapterProgressRow, error) {
	var rows []chapterProgressRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_slug = ?", userID, courseSlug).
		Order("chapter_number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load progress %s/%s: %w", userID, courseSlug, err)
	}
	return rows, nil
}

func (r *progressRepo) CourseStatsForMentor(ctx context.Context, userID, courseSlug string) (*mentor.CourseMentorStats, error) {
	course, err := getCourseRow(ctx, r.db, courseSlug)
	if err != nil || course == nil {
		return nil, err
	}
	rows, err := r.loadProgress(ctx, userID, courseSlug)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	stats := &mentor.CourseMentorStats{
		TotalChapters: len(course.Chapters.Data()),
		Chapters:      course.Chapters.Data(),
		CourseTopic:   course.Topic,
		Difficulty:    course.Difficulty,
	}

	var scoreSum float64
	for _, row := range rows {
		rec := row.record()
		stats.ProgressByChapter = append(stats.ProgressByChapter, rec)
		if rec.Completed {
			stats.CompletedChapters++
			scoreSum += rec.Score
		}
		for _, a := range rec.Answers {
			if !a.IsCorrect {
				stats.TotalWrongAnswers++
			}
		}
	}
	if stats.CompletedChapters > 0 {
		stats.AverageScore = scoreSum / float64(stats.CompletedChapters)
	}
	return stats, nil
}

func (r *progressRepo) WrongAnswersForCourse(ctx context.Context, userID, courseSlug string) ([]mentor.RawWrongAnswer, error) {
	rows, err := r.loadProgress(ctx, userID, courseSlug)
	if err != nil {
		return nil, err
	}

	titles := map[int]string{}
	if course, err := getCourseRow(ctx, r.db, courseSlug); err != nil {
		return nil, err
	} else if course != nil {
		for _, ch := range course.Chapters.Data() {
			titles[ch.Number] = ch.Title
		}
	}

	var out []mentor.RawWrongAnswer
	for _, row := range rows {
		title := row.ChapterTitle
		if title == "" {
			title = titles[row.ChapterNumber]
		}
		for _, a := range row.Answers.Data() {
			if a.IsCorrect {
				continue
			}
			out = append(out, mentor.RawWrongAnswer{
				QuestionID:    a.QuestionID,
				QuestionText:  a.QuestionText,
				QuestionType:  a.QuestionType,
				Options:       a.Options,
				UserAnswer:    a.UserAnswer,
				CorrectAnswer: a.CorrectAnswer,
				Explanation:   a.Explanation,
				ChapterNumber: row.ChapterNumber,
				ChapterTitle:  title,
			})
		}
	}
	return out, nil
}
