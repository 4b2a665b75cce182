// Package errors provides the single shared location type used by lex and
// parse errors (evaluation errors carry only a message). There is no recovery, severity grading, or
// fix-suggestion apparatus here: every error in this compiler is fatal.
package errors

import "fmt"

// SourceLocation pinpoints a byte offset in the original source string,
// plus the derived line/column used for display.
type SourceLocation struct {
	File   string `json:"file,omitempty"`
	Offset int    `json:"offset"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (l SourceLocation) String() string {
	if l.File != "" {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}
