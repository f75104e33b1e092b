package segment

// Type classifies a segment. Raw segments carry lexical types; composite
// segments carry structural types.
type Type string

// Structural types.
const (
	TypeFile            Type = "file"
	TypeStatement       Type = "statement"
	TypeSelectStatement Type = "select_statement"
	TypeInsertStatement Type = "insert_statement"
	TypeUpdateStatement Type = "update_statement"
	TypeDeleteStatement Type = "delete_statement"
	TypeCreateStatement Type = "create_statement"
	TypeBracketed       Type = "bracketed"
)

// Lexical types.
const (
	TypeWhitespace         Type = "whitespace"
	TypeNewline            Type = "newline"
	TypeComment            Type = "comment"
	TypeKeyword            Type = "keyword"
	TypeIdentifier         Type = "naked_identifier"
	TypeQuotedIdentifier   Type = "quoted_identifier"
	TypeQuotedLiteral      Type = "quoted_literal"
	TypeNumericLiteral     Type = "numeric_literal"
	TypeComparisonOperator Type = "comparison_operator"
	TypeOperator           Type = "binary_operator"
	TypeComma              Type = "comma"
	TypeDot                Type = "dot"
	TypeSemicolon          Type = "statement_terminator"
	TypeStartBracket       Type = "start_bracket"
	TypeEndBracket         Type = "end_bracket"
	TypeUnlexable          Type = "unlexable"
)

// IsStatement reports whether t is one of the statement types.
func (t Type) IsStatement() bool {
	switch t {
	case TypeStatement, TypeSelectStatement, TypeInsertStatement,
		TypeUpdateStatement, TypeDeleteStatement, TypeCreateStatement:
		return true
	default:
		return false
	}
}

// IsNonCode reports whether t is whitespace, a newline or a comment.
func (t Type) IsNonCode() bool {
	return t == TypeWhitespace || t == TypeNewline || t == TypeComment
}

// IsWhitespace reports whether t is whitespace or a newline.
func (t Type) IsWhitespace() bool {
	return t == TypeWhitespace || t == TypeNewline
}
