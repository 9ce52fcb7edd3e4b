package internal

import "fmt"

// Position represents a location in the math source
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// calculatePosition returns the position just after prefix.
func calculatePosition(prefix string) Position {
	pos := Position{
		Offset: len(prefix),
		Line:   1,
		Column: 1,
	}

	for i := 0; i < len(prefix); i++ {
		if prefix[i] == charNewline {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}

	return pos
}

// StructureError reports a structural problem in math source.
type StructureError struct {
	Message  string
	Position Position
	Cause    error
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	if e.Position.Line > 0 {
		return e.Message + " at " + e.Position.String()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *StructureError) Unwrap() error {
	return e.Cause
}

// NewStructureError creates a new structure error with position.
func NewStructureError(message string, pos Position, cause error) *StructureError {
	return &StructureError{
		Message:  message,
		Position: pos,
		Cause:    cause,
	}
}
