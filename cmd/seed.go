package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursementor/internal/store"
)

// seedFile is the fixture format accepted by seed.
type seedFile struct {
	Courses  []store.Course          `json:"courses"`
	Progress []store.ChapterProgress `json:"progress"`
}

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.json>",
	Short: "Load courses and chapter progress from a JSON fixture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read fixture: %w", err)
		}
		var f seedFile
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("parse fixture: %w", err)
		}

		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		ctx := cmd.Context()
		for _, c := range f.Courses {
			if err := d.service.SaveCourse(ctx, c); err != nil {
				return fmt.Errorf("course %q: %w", c.Slug, err)
			}
		}
		for _, p := range f.Progress {
			if err := d.service.RecordProgress(ctx, p); err != nil {
				return fmt.Errorf("progress %s/%s/%d: %w", p.UserID, p.CourseSlug, p.ChapterNumber, err)
			}
		}
		fmt.Printf("Seeded %d courses and %d progress records.\n", len(f.Courses), len(f.Progress))
		return nil
	},
}
