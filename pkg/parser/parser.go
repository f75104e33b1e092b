package parser

import (
	"strings"

	"github.com/leapstack-labs/sqlint/pkg/dialect"
	"github.com/leapstack-labs/sqlint/pkg/segment"
)

// Parser groups raw segments into a tree.
//
// The root is a file segment. Each statement ends at a semicolon at bracket
// depth zero; the semicolon, and any whitespace or comments between
// statements, are children of the file. Brackets nest as bracketed segments.
type Parser struct {
	dialect *dialect.Dialect
}

// New creates a parser for the given dialect.
func New(d *dialect.Dialect) *Parser {
	return &Parser{dialect: d}
}

// frame is an open bracket awaiting its close.
type frame struct {
	items []*segment.Segment
}

// Parse builds a tree from tokens. Unbalanced brackets are a *ParseError
// and no tree is returned.
func (p *Parser) Parse(tokens []*segment.Segment) (*segment.Segment, error) {
	var (
		file  []*segment.Segment
		stmt  []*segment.Segment
		stack []*frame
	)

	appendItem := func(seg *segment.Segment) {
		if n := len(stack); n > 0 {
			stack[n-1].items = append(stack[n-1].items, seg)
			return
		}
		stmt = append(stmt, seg)
	}

	flush := func() {
		end := len(stmt)
		for end > 0 && !stmt[end-1].IsCode() {
			end--
		}
		if end > 0 {
			file = append(file, segment.NewComposite(p.classify(stmt[:end]), stmt[:end]))
		}
		file = append(file, stmt[end:]...)
		stmt = nil
	}

	for _, tok := range tokens {
		switch tok.Type() {
		case segment.TypeStartBracket:
			stack = append(stack, &frame{items: []*segment.Segment{tok}})
		case segment.TypeEndBracket:
			if len(stack) == 0 {
				return nil, &ParseError{Pos: tok.Pos(), Message: ErrUnexpectedCloseBracket}
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			appendItem(segment.NewComposite(segment.TypeBracketed, append(top.items, tok)))
		case segment.TypeSemicolon:
			if len(stack) > 0 {
				return nil, &ParseError{Pos: stack[len(stack)-1].items[0].Pos(), Message: ErrUnclosedBracket}
			}
			flush()
			file = append(file, tok)
		default:
			if len(stack) == 0 && len(stmt) == 0 && !tok.IsCode() {
				file = append(file, tok)
				continue
			}
			appendItem(tok)
		}
	}

	if len(stack) > 0 {
		return nil, &ParseError{Pos: stack[len(stack)-1].items[0].Pos(), Message: ErrUnclosedBracket}
	}
	flush()

	return segment.NewComposite(segment.TypeFile, file), nil
}

// classify picks a statement type from the leading keyword.
func (p *Parser) classify(items []*segment.Segment) segment.Type {
	first := items[0]
	if !first.Is(segment.TypeKeyword) {
		return segment.TypeStatement
	}
	switch strings.ToUpper(first.Raw()) {
	case "SELECT", "WITH", "VALUES":
		return segment.TypeSelectStatement
	case "INSERT":
		return segment.TypeInsertStatement
	case "UPDATE":
		return segment.TypeUpdateStatement
	case "DELETE":
		return segment.TypeDeleteStatement
	case "CREATE":
		return segment.TypeCreateStatement
	default:
		return segment.TypeStatement
	}
}
