package errors

import (
	stdErrors "errors"
	"fmt"
)

// NoUniqueMatchError is returned when an ISBN search does not resolve to
// exactly one volume. TotalItems distinguishes "nothing found" from
// "ambiguous match"; either way the lookup is terminal and the caller has to
// re-prompt with a different ISBN.
type NoUniqueMatchError struct {
	ISBN       string
	TotalItems int
}

func (e *NoUniqueMatchError) Error() string {
	if e.TotalItems == 0 {
		return fmt.Sprintf("no volume found for ISBN %s", e.ISBN)
	}
	return fmt.Sprintf("%d volumes found for ISBN %s, cannot disambiguate", e.TotalItems, e.ISBN)
}

// NewNoUniqueMatchError creates a NoUniqueMatchError for the given ISBN and match count.
func NewNoUniqueMatchError(isbn string, totalItems int) *NoUniqueMatchError {
	return &NoUniqueMatchError{ISBN: isbn, TotalItems: totalItems}
}

// IsNoUniqueMatchError reports whether err is a NoUniqueMatchError (even when wrapped).
func IsNoUniqueMatchError(err error) bool {
	var matchErr *NoUniqueMatchError
	return stdErrors.As(err, &matchErr)
}
