package gapgen

import "github.com/abhisek/coursementor/internal/llm"

// GapQuestionsSchema is the structured output for a batch of extras.
// correct_answer is always a string; true/false items use "true" or "false".
var GapQuestionsSchema = &llm.Schema{
	Name:        "gap-questions",
	Description: "Reinforcement quiz questions targeting a learner's weak concepts",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question_type": map[string]any{
							"type": "string",
							"enum": []any{"mcq", "true_false"},
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"easy", "medium", "hard"},
						},
						"question_text": map[string]any{
							"type":        "string",
							"description": "The question shown to the learner",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 options for mcq, prefixed A) to D). Empty for true_false.",
						},
						"correct_answer": map[string]any{
							"type":        "string",
							"description": "Option letter A-D for mcq; \"true\" or \"false\" for true_false",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct answer is correct",
						},
						"hint": map[string]any{
							"type":        "string",
							"description": "A nudge that does not reveal the answer",
						},
						"source_chapter": map[string]any{
							"type":        "integer",
							"description": "Chapter number of the target",
						},
						"target_concept": map[string]any{
							"type":        "string",
							"description": "The concept this question reinforces",
						},
					},
					"required": []any{
						"question_type", "difficulty", "question_text", "options",
						"correct_answer", "explanation", "hint", "source_chapter", "target_concept",
					},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
