package starlark

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/leapstack-labs/sqlint/internal/template"
)

// ExecutionContext holds the globals for evaluating the expressions of one
// file. It implements template.Evaluator.
type ExecutionContext struct {
	file    string
	globals starlark.StringDict
	pool    *ThreadPool
}

// ContextOption is a functional option for configuring ExecutionContext.
type ContextOption func(*ExecutionContext)

// WithThreadPool makes the context borrow threads from pool.
func WithThreadPool(pool *ThreadPool) ContextOption {
	return func(ctx *ExecutionContext) {
		ctx.pool = pool
	}
}

// NewExecutionContext creates a context for file with the given template variables.
func NewExecutionContext(file string, vars map[string]any, opts ...ContextOption) (*ExecutionContext, error) {
	dict := starlark.NewDict(len(vars))
	if len(vars) > 0 {
		v, err := GoToStarlark(vars)
		if err != nil {
			return nil, fmt.Errorf("converting template vars: %w", err)
		}
		dict = v.(*starlark.Dict)
	}

	ctx := &ExecutionContext{
		file:    file,
		globals: Predeclared(dict),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	if ctx.pool == nil {
		ctx.pool = NewThreadPool(1)
	}
	return ctx, nil
}

// Globals returns the globals used for evaluation.
func (ctx *ExecutionContext) Globals() starlark.StringDict {
	return ctx.globals
}

// EvalExpr evaluates a single Starlark expression.
func (ctx *ExecutionContext) EvalExpr(expr string, line int) (starlark.Value, error) {
	thread := ctx.pool.Get(ctx.file)
	defer ctx.pool.Put(thread)

	result, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, ctx.file, expr, ctx.globals)
	if err != nil {
		return nil, &EvalError{
			File:    ctx.file,
			Line:    line,
			Expr:    expr,
			Message: err.Error(),
		}
	}
	return result, nil
}

// EvalString evaluates an expression and renders the result as SQL text.
// Strings render without quotes and None renders as empty text.
func (ctx *ExecutionContext) EvalString(expr string, pos template.Position) (string, error) {
	result, err := ctx.EvalExpr(expr, pos.Line)
	if err != nil {
		return "", err
	}

	switch v := result.(type) {
	case starlark.String:
		return string(v), nil
	case starlark.NoneType:
		return "", nil
	default:
		return result.String(), nil
	}
}

// EvalError represents an error during Starlark expression evaluation.
type EvalError struct {
	File    string
	Line    int
	Expr    string
	Message string
}

func (e *EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: error evaluating %q: %s", e.File, e.Line, e.Expr, e.Message)
	}
	return fmt.Sprintf("%s: error evaluating %q: %s", e.File, e.Expr, e.Message)
}
