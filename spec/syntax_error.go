package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	// lexical errors
	synErrUnclosedString    = newSyntaxError("unclosed string literal")
	synErrEmptyString       = newSyntaxError("a string literal must not be empty")
	synErrUnclosedPattern   = newSyntaxError("unclosed pattern")
	synErrEmptyPattern      = newSyntaxError("a pattern must not be empty")
	synErrInvalidEscSeq     = newSyntaxError("invalid escape sequence")
	synErrIncompletedEscSeq = newSyntaxError("incompleted escape sequence; unexpected EOF following \\")

	// syntax errors
	synErrInvalidToken     = newSyntaxError("invalid token")
	synErrEmptyGrammar     = newSyntaxError("a grammar must have at least one declaration")
	synErrNoTokenName      = newSyntaxError("a token declaration needs a name")
	synErrNoTokenPattern   = newSyntaxError("a token declaration needs a string literal or a pattern")
	synErrNoEntryName      = newSyntaxError("an entry declaration needs a name")
	synErrNoProdName       = newSyntaxError("a production declaration needs a name")
	synErrNoEq             = newSyntaxError("the equal sign is missing")
	synErrNoSemicolon      = newSyntaxError("the semicolon is missing at the end of a declaration")
	synErrEmptyAlternative = newSyntaxError("an alternative must have at least one element")
	synErrGroupUnclosed    = newSyntaxError("unclosed group expression")
	synErrGroupEmpty       = newSyntaxError("a group expression must have at least one element")
)
