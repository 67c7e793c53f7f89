package apperrors

import "fmt"

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// ErrUnexpectedStatus is returned when the subtitle source answers with a non-200 status.
type ErrUnexpectedStatus struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrUnexpectedStatus) Is(target error) bool {
	_, ok := target.(*ErrUnexpectedStatus)
	return ok
}

// ErrBodyTooLarge is returned when a response body exceeds the buffering limit.
type ErrBodyTooLarge struct {
	URL   string
	Limit int64
}

// Error implements the error interface.
func (e *ErrBodyTooLarge) Error() string {
	return fmt.Sprintf("response body from %s exceeds %d bytes", e.URL, e.Limit)
}

// Is allows for error checking with errors.Is().
func (e *ErrBodyTooLarge) Is(target error) bool {
	_, ok := target.(*ErrBodyTooLarge)
	return ok
}

// ErrMalformedRow is reported when a markup row does not have the expected number of cells.
// The row is skipped; extraction of the remaining rows continues.
type ErrMalformedRow struct {
	Page     string
	Row      int
	Cells    int
	Expected int
}

// Error implements the error interface.
func (e *ErrMalformedRow) Error() string {
	return fmt.Sprintf("malformed %s row %d: got %d cells, expected %d", e.Page, e.Row, e.Cells, e.Expected)
}

// Is allows for error checking with errors.Is().
func (e *ErrMalformedRow) Is(target error) bool {
	_, ok := target.(*ErrMalformedRow)
	return ok
}

// ErrMalformedToken is returned when a retrieval token does not contain the delimiter.
// This is a caller contract violation and is the only error surfaced to the host.
type ErrMalformedToken struct {
	Token string
}

// Error implements the error interface.
func (e *ErrMalformedToken) Error() string {
	return fmt.Sprintf("malformed subtitle token %q", e.Token)
}

// Is allows for error checking with errors.Is().
func (e *ErrMalformedToken) Is(target error) bool {
	_, ok := target.(*ErrMalformedToken)
	return ok
}
