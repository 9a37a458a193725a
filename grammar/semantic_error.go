package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction        = newSemanticError("a grammar needs at least one production")
	semErrUndefinedSym        = newSemanticError("undefined symbol")
	semErrDuplicateProduction = newSemanticError("duplicate production")
	semErrDuplicateToken      = newSemanticError("duplicate token")
	semErrDuplicateName       = newSemanticError("duplicate names are not allowed between tokens and productions")
	semErrNoEntry             = newSemanticError("a grammar must declare exactly one entry symbol")
	semErrDuplicateEntry      = newSemanticError("a grammar must declare exactly one entry symbol; multiple entry declarations found")
	semErrAmbiguousToken      = newSemanticError("ambiguous token definition")
	semErrLeftRecursion       = newSemanticError("left recursion blocks LL(1) table construction")
	semErrLL1Conflict         = newSemanticError("LL(1) conflict")
	semErrSRConflict          = newSemanticError("shift-reduce conflict")
	semErrRRConflict          = newSemanticError("reduce-reduce conflict")
)
