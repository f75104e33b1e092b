package starlark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoToStarlark(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, "None"},
		{"string", "analytics", `"analytics"`},
		{"bool", true, "True"},
		{"yaml int", 42, "42"},
		{"toml int", int64(7), "7"},
		{"uint", uint64(3), "3"},
		{"float", 0.5, "0.5"},
		{"toml date", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), `"2026-01-02T03:04:05Z"`},
		{"env list", []string{"a", "b"}, `["a", "b"]`},
		{"yaml list", []any{"x", 1, false}, `["x", 1, False]`},
		{"empty list", []any{}, "[]"},
		{"sorted dict", map[string]any{"schema": "raw", "db": "prod"}, `{"db": "prod", "schema": "raw"}`},
		{"nested", map[string]any{"cols": []any{"id"}}, `{"cols": ["id"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GoToStarlark(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestGoToStarlark_Unsupported(t *testing.T) {
	_, err := GoToStarlark(struct{}{})
	assert.ErrorContains(t, err, "unsupported type struct {}")

	_, err = GoToStarlark(map[string]any{"outer": []any{1, struct{}{}}})
	assert.ErrorContains(t, err, `key "outer": index 1: unsupported type`)
}
