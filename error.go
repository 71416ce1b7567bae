package quicksilver

import (
	"fmt"
	"strings"
)

// Error name constants for the classifications the core produces.
const (
	ErrSyntax    = "SyntaxError"
	ErrReference = "ReferenceError"
	ErrType      = "TypeError"
	ErrRange     = "RangeError"
	ErrInterrupt = "InterruptError"
	ErrUsage     = "UsageError"
	ErrInternal  = "InternalError"
)

// Error represents a script error with detailed information.
type Error struct {
	Name    string   // classification (e.g. "SyntaxError", "ReferenceError")
	Message string   // human-readable message
	File    string   // evaluation filename, when one was given
	Pos     Position // location in the source, 1-indexed; zero when unknown
	Snippet string   // the offending source line, when available
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Name, e.Message)
	if e.Pos.Line > 0 {
		if e.File != "" {
			fmt.Fprintf(&b, " at %s:%d:%d", e.File, e.Pos.Line, e.Pos.Column)
		} else {
			fmt.Fprintf(&b, " at %d:%d", e.Pos.Line, e.Pos.Column)
		}
	}
	if e.Snippet != "" {
		fmt.Fprintf(&b, "\n  | %s", e.Snippet)
		if e.Pos.Column > 0 {
			fmt.Fprintf(&b, "\n  | %s^", strings.Repeat(" ", e.Pos.Column-1))
		}
	}
	return b.String()
}

// IsSyntaxError reports whether the error is a parse-time failure.
func (e *Error) IsSyntaxError() bool {
	return e.Name == ErrSyntax
}

// IsRuntimeError reports whether the error occurred during execution
// (unresolved identifier, bad operand, interrupted evaluation).
func (e *Error) IsRuntimeError() bool {
	return e.Name != ErrSyntax && e.Name != ErrInternal
}

// newError builds a classified error and attaches the source line the
// position points into.
func newError(name string, pos Position, source, format string, args ...interface{}) *Error {
	e := &Error{
		Name:    name,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
	if pos.Line > 0 && source != "" {
		lines := strings.Split(source, "\n")
		if pos.Line <= len(lines) {
			e.Snippet = lines[pos.Line-1]
		}
	}
	return e
}
