package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursementor/internal/mentorsvc"
	"github.com/abhisek/coursementor/internal/ui/report"
)

var statusCmd = &cobra.Command{
	Use:   "status <course-slug>",
	Short: "Show whether the mentor is unlocked for a learner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		user, _ := cmd.Flags().GetString("user")
		st, err := d.service.Status(cmd.Context(), user, args[0])
		if err != nil {
			return err
		}
		return render(cmd, st, func() string { return report.Status(args[0], st) })
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <course-slug>",
	Short: "Show weak chapters and concepts for a learner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		user, _ := cmd.Flags().GetString("user")
		a, err := d.service.Analyze(cmd.Context(), user, args[0])
		if err != nil {
			return err
		}
		return render(cmd, a, func() string { return report.Analysis(a) })
	},
}

var gapQuizCmd = &cobra.Command{
	Use:   "gap-quiz <course-slug>",
	Short: "Build a gap quiz from missed questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		user, _ := cmd.Flags().GetString("user")
		req := mentorsvc.GapQuizRequest{CourseSlug: args[0]}
		req.IncludeHints, _ = cmd.Flags().GetBool("hints")
		req.ExtraQuestionsCount, _ = cmd.Flags().GetInt("extra")
		req.GenerateExtra = req.ExtraQuestionsCount > 0

		q, err := d.service.GapQuiz(cmd.Context(), user, req)
		if err != nil {
			return err
		}
		return render(cmd, q, func() string { return report.GapQuiz(q) })
	},
}

// render prints v as JSON with --json, otherwise the styled report.
func render(cmd *cobra.Command, v any, styled func() string) error {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	fmt.Println(styled())
	return nil
}

func init() {
	for _, c := range []*cobra.Command{statusCmd, analyzeCmd, gapQuizCmd} {
		c.Flags().StringP("user", "u", "", "learner id")
		_ = c.MarkFlagRequired("user")
		c.Flags().Bool("json", false, "print JSON instead of a styled report")
	}
	gapQuizCmd.Flags().Bool("hints", false, "include hints")
	gapQuizCmd.Flags().IntP("extra", "n", 0, "number of extra questions to generate (0 for none)")
}
