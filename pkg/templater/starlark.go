package templater

import (
	"errors"

	starctx "github.com/leapstack-labs/sqlint/internal/starlark"
	"github.com/leapstack-labs/sqlint/internal/template"
	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/token"
)

// Starlark renders {{ expr }} tags by evaluating them as Starlark
// expressions against the configured vars.
type Starlark struct {
	pool *starctx.ThreadPool
}

// NewStarlark creates a Starlark templater. It is safe for concurrent use.
func NewStarlark() *Starlark {
	return &Starlark{pool: starctx.NewThreadPool(0)}
}

// Name returns "starlark".
func (s *Starlark) Name() string { return "starlark" }

// Process renders the file. Tag syntax errors yield no output; evaluation
// errors are reported while rendering continues.
func (s *Starlark) Process(in, fname string, cfg *core.Config) (*TemplatedFile, []*core.SQLTemplaterError, error) {
	tokens, err := template.NewLexer(in, fname).Tokenize()
	if err != nil {
		return nil, []*core.SQLTemplaterError{toViolation(err)}, nil
	}

	var vars map[string]any
	if cfg != nil {
		vars = cfg.Vars
	}
	ctx, err := starctx.NewExecutionContext(fname, vars, starctx.WithThreadPool(s.pool))
	if err != nil {
		return nil, nil, core.NewUserError("invalid templater vars: %v", err)
	}

	out, renderErrs := template.Render(tokens, ctx)

	var violations []*core.SQLTemplaterError
	for _, e := range renderErrs {
		violations = append(violations, toViolation(e))
	}

	slices := make([]FileSlice, 0, len(out.Slices))
	for _, sl := range out.Slices {
		slices = append(slices, FileSlice{
			Type:           SliceType(sl.Kind),
			SourceSlice:    token.Slice{Start: sl.SourceStart, Stop: sl.SourceEnd},
			TemplatedSlice: token.Slice{Start: sl.TemplatedStart, Stop: sl.TemplatedEnd},
		})
	}
	if len(slices) == 0 {
		slices = nil
	}

	return NewTemplatedFile(in, fname, out.Text, slices), violations, nil
}

func toViolation(err error) *core.SQLTemplaterError {
	var tmplErr template.Error
	if errors.As(err, &tmplErr) {
		p := tmplErr.Position()
		return core.NewTemplaterError(err.Error(), token.Position{Line: p.Line, Column: p.Column})
	}
	return core.NewTemplaterError(err.Error(), token.Position{})
}
