package storage

import "fmt"

// ValidationError describes why a persisted blob was rejected.
type ValidationError struct {
	Path string // location inside the blob, e.g. "[2].createdAt"
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
