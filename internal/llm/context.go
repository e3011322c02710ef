package llm

import "context"

type labelKey int

const (
	purposeLabel labelKey = iota
	courseLabel
)

// WithPurpose tags calls made with ctx, e.g. "gap-questions".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeLabel, purpose)
}

// WithCourse tags calls made with ctx with the course they serve.
func WithCourse(ctx context.Context, slug string) context.Context {
	return context.WithValue(ctx, courseLabel, slug)
}

// PurposeFrom returns the purpose label, or "unknown".
func PurposeFrom(ctx context.Context) string {
	return label(ctx, purposeLabel, "unknown")
}

// CourseFrom returns the course label, or "".
func CourseFrom(ctx context.Context) string {
	return label(ctx, courseLabel, "")
}

func label(ctx context.Context, key labelKey, def string) string {
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v
	}
	return def
}
