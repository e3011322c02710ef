package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type courseRepo struct {
	db *gorm.DB
}

func (r *courseRepo) SaveCourse(ctx context.Context, c Course) error {
	if c.Slug == "" {
		return fmt.Errorf("course slug is required")
	}
	row := courseRow{
		Slug:       c.Slug,
		Topic:      c.Topic,
		Difficulty: c.Difficulty,
		Chapters:   datatypes.NewJSONType(c.Chapters),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"topic", "difficulty", "chapters", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save course %q: %w", c.Slug, err)
	}
	return nil
}

func (r *courseRepo) GetCourse(ctx context.Context, slug string) (*Course, error) {
	row, err := getCourseRow(ctx, r.db, slug)
	if err != nil || row == nil {
		return nil, err
	}
	return &Course{
		Slug:       row.Slug,
		Topic:      row.Topic,
		Difficulty: row.Difficulty,
		Chapters:   row.Chapters.Data(),
	}, nil
}

func getCourseRow(ctx context.Context, db *gorm.DB, slug string) (*courseRow, error) {
	var row courseRow
	err := db.WithContext(ctx).Where("slug = ?", slug).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get course %q: %w", slug, err)
	}
	return &row, nil
}
