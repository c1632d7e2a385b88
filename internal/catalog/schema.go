package catalog

import "github.com/abhisek/dailyenglish/internal/schema"

func enumOf[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// ExerciseSchema is the shape every catalog record must satisfy.
var ExerciseSchema = &schema.Schema{
	Name: "exercise",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":     map[string]any{"type": "string", "minLength": 1},
			"type":   map[string]any{"type": "string", "enum": enumOf(AllTypes())},
			"level":  map[string]any{"type": "string", "enum": enumOf(Levels())},
			"topic":  map[string]any{"type": "string"},
			"prompt": map[string]any{"type": "string"},
			"answer": map[string]any{
				"oneOf": []any{
					map[string]any{"type": "string"},
					map[string]any{
						"type":     "array",
						"items":    map[string]any{"type": "string"},
						"minItems": 1,
					},
				},
			},
			"synonyms": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"note": map[string]any{"type": "string"},
		},
		"required": []any{"id", "type", "level", "topic", "prompt", "answer"},
	},
}
