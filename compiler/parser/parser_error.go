package parser

import (
	"fmt"

	cerrors "github.com/bootc/pdbquery/compiler/errors"
)

// ParseError is a fatal syntax error. The parser stops at the first one;
// there is no recovery, no suggestion list, no continuation.
type ParseError struct {
	Message  string
	Location cerrors.SourceLocation
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}
