package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapEvaluator resolves expressions from a fixed map.
type mapEvaluator map[string]string

func (m mapEvaluator) EvalString(expr string, _ Position) (string, error) {
	if v, ok := m[expr]; ok {
		return v, nil
	}
	return "", errors.New("undefined: " + expr)
}

func render(t *testing.T, input string, eval Evaluator) (Output, []error) {
	t.Helper()
	tokens, err := NewLexer(input, "test.sql").Tokenize()
	require.NoError(t, err)
	return Render(tokens, eval)
}

func TestRender_Slices(t *testing.T) {
	input := "SELECT {{ col }} FROM t"
	out, errs := render(t, input, mapEvaluator{"col": "user_id"})
	require.Empty(t, errs)

	assert.Equal(t, "SELECT user_id FROM t", out.Text)
	require.Len(t, out.Slices, 3)

	tmpl := out.Slices[1]
	assert.Equal(t, SliceTemplated, tmpl.Kind)
	assert.Equal(t, "{{ col }}", input[tmpl.SourceStart:tmpl.SourceEnd])
	assert.Equal(t, "user_id", out.Text[tmpl.TemplatedStart:tmpl.TemplatedEnd])

	lit := out.Slices[2]
	assert.Equal(t, SliceLiteral, lit.Kind)
	assert.Equal(t, input[lit.SourceStart:lit.SourceEnd], out.Text[lit.TemplatedStart:lit.TemplatedEnd])
}

func TestRender_EvalErrorContinues(t *testing.T) {
	out, errs := render(t, "SELECT {{ missing }}, {{ col }}", mapEvaluator{"col": "a"})

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "undefined: missing")
	assert.Equal(t, "SELECT , a", out.Text)
}

func TestRender_BlocksUnsupported(t *testing.T) {
	out, errs := render(t, "{* if x: *}SELECT 1{* endif *}", mapEvaluator{})

	require.Len(t, errs, 2)
	assert.True(t, strings.Contains(errs[0].Error(), "'if' blocks are not supported"))
	assert.Equal(t, "SELECT 1", out.Text)
	assert.Equal(t, SliceBlock, out.Slices[0].Kind)
	assert.Equal(t, 0, out.Slices[0].TemplatedEnd-out.Slices[0].TemplatedStart)
}
