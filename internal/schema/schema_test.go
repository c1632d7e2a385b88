package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pointSchema = &Schema{
	Name: "test-point",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
			"y": map[string]any{"type": "integer"},
		},
		"required": []any{"x", "y"},
	},
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"x": 1, "y": 2}`, false},
		{"missing field", `{"x": 1}`, true},
		{"wrong type", `{"x": "1", "y": 2}`, true},
		{"not JSON", `{x: 1`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(pointSchema, []byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCompileIsCached(t *testing.T) {
	first, err := compile(pointSchema)
	require.NoError(t, err)
	second, err := compile(pointSchema)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
