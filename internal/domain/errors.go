package domain

import "fmt"

// FormatError reports card content that does not satisfy the grammar of
// its model type, or a field value that contains the reserved internal
// field separator. It is always recoverable per card: the caller may drop
// or regenerate the offending card without abandoning the batch.
type FormatError struct {
	ModelType ModelType
	Reason    string
}

func (e *FormatError) Error() string {
	if e.ModelType == "" {
		return fmt.Sprintf("card format: %s", e.Reason)
	}
	return fmt.Sprintf("card format (%s): %s", e.ModelType, e.Reason)
}

// NewFormatError builds a FormatError for the given model type.
func NewFormatError(t ModelType, format string, args ...any) *FormatError {
	return &FormatError{ModelType: t, Reason: fmt.Sprintf(format, args...)}
}

// CollisionError reports two distinct notes reducing to the same 64-bit
// identifier. It is fatal for the package build; it must never be worked
// around by re-hashing, or identifiers would lose their cross-run
// stability.
type CollisionError struct {
	ID      int64
	DigestA string
	DigestB string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("note id collision: id %d derived from digests %s and %s", e.ID, e.DigestA, e.DigestB)
}
