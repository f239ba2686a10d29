package domain

import "fmt"

// ValidationError reports caller-fixable bad input (empty terms, unknown
// engine, identical source/destination). Never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// DocumentProcessingError reports a failure while parsing, rendering or
// serializing a document. "Term not found" is never a processing error; it
// is a normal empty result.
type DocumentProcessingError struct {
	Stage string
	Err   error
}

func (e *DocumentProcessingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("document processing failed during %s", e.Stage)
	}
	return fmt.Sprintf("document processing failed during %s: %v", e.Stage, e.Err)
}

func (e *DocumentProcessingError) Unwrap() error { return e.Err }

// NewProcessingError wraps err as a DocumentProcessingError for the given stage.
func NewProcessingError(stage string, err error) *DocumentProcessingError {
	return &DocumentProcessingError{Stage: stage, Err: err}
}

// StorageError reports a file storage failure (missing file, permission
// denied, unreachable bucket).
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error for %q: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
