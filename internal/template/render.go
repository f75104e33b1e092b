package template

import "strings"

// SliceKind classifies a rendered region.
type SliceKind string

// Slice kinds.
const (
	SliceLiteral   SliceKind = "literal"
	SliceTemplated SliceKind = "templated"
	SliceBlock     SliceKind = "block"
)

// Slice maps a region of the source to the region of output it produced.
type Slice struct {
	Kind           SliceKind
	SourceStart    int
	SourceEnd      int
	TemplatedStart int
	TemplatedEnd   int
}

// Evaluator evaluates the body of a {{ expr }} tag to its rendered text.
type Evaluator interface {
	EvalString(expr string, pos Position) (string, error)
}

// Output is the result of rendering a template.
type Output struct {
	Text   string
	Slices []Slice
}

// Render renders tokens using eval. Expressions that fail to evaluate render
// as empty text and are reported; rendering continues past them. Control
// flow statements are reported as unsupported and render nothing.
func Render(tokens []Token, eval Evaluator) (Output, []error) {
	var (
		b    strings.Builder
		out  Output
		errs []error
	)

	for _, tok := range tokens {
		start := b.Len()
		kind := SliceLiteral

		switch tok.Type {
		case TokenEOF:
			continue
		case TokenText:
			b.WriteString(tok.Value)
		case TokenExpr:
			kind = SliceTemplated
			if tok.Value == "" {
				errs = append(errs, NewRenderError(tok.Pos, "empty expression"))
				break
			}
			s, err := eval.EvalString(tok.Value, tok.Pos)
			if err != nil {
				errs = append(errs, WrapRenderError(tok.Pos, "failed to evaluate expression", err))
				break
			}
			b.WriteString(s)
		case TokenStmt:
			kind = SliceBlock
			errs = append(errs, NewRenderErrorf(tok.Pos, "'%s' blocks are not supported", ClassifyStmt(tok.Value)))
		}

		out.Slices = append(out.Slices, Slice{
			Kind:           kind,
			SourceStart:    tok.Start,
			SourceEnd:      tok.End,
			TemplatedStart: start,
			TemplatedEnd:   b.Len(),
		})
	}

	out.Text = b.String()
	return out, errs
}
