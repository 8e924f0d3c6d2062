package common

import "errors"

// CustomError carries a stable error code alongside the message so callers
// can map engine failures without string matching.
type CustomError struct {
	Code    string
	Message string
	Err     error
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError creates a new CustomError.
func NewError(code, message string, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes surfaced by the engine.
const (
	ErrCodeEmptyQuery          = "EMPTY_QUERY"
	ErrCodeInvalidServingCount = "INVALID_SERVING_COUNT"
	ErrCodeEmptyCorpus         = "EMPTY_CORPUS"
	ErrCodeRecipeNotFound      = "RECIPE_NOT_FOUND"
	ErrCodeIndexNotReady       = "INDEX_NOT_READY"
	ErrCodeCacheDisabled       = "CACHE_DISABLED"
	ErrCodeInvalidCorpusFile   = "INVALID_CORPUS_FILE"
)

// Predefined errors.
var (
	// ErrEmptyQuery is returned when a match query has no usable ingredient
	// tokens after normalization.
	ErrEmptyQuery = NewError(ErrCodeEmptyQuery, "no usable ingredient tokens in query", nil)

	// ErrInvalidServingCount is returned when a serving adjustment targets
	// fewer than one serving.
	ErrInvalidServingCount = NewError(ErrCodeInvalidServingCount, "target servings must be at least 1", nil)

	// ErrEmptyCorpus is returned when an index build finds no indexable recipe.
	ErrEmptyCorpus = NewError(ErrCodeEmptyCorpus, "corpus contains no indexable recipes", nil)

	// ErrRecipeNotFound is returned when a serving adjustment references an
	// unknown recipe id.
	ErrRecipeNotFound = NewError(ErrCodeRecipeNotFound, "recipe not found", nil)

	// ErrIndexNotReady is returned when Match is called before any corpus has
	// been loaded.
	ErrIndexNotReady = NewError(ErrCodeIndexNotReady, "no index has been built yet", nil)

	// ErrCacheDisabled signals a lookup against a disabled cache.
	ErrCacheDisabled = NewError(ErrCodeCacheDisabled, "cache is disabled", nil)
)

// IsCode reports whether err carries the given engine error code.
func IsCode(err error, code string) bool {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
