package collection

import "errors"

var (
	ErrUnknownResource   = errors.New("unknown resource")
	ErrUnknownSort       = errors.New("unknown sort key")
	ErrUnknownFilter     = errors.New("unknown filter key")
	ErrSessionNotFound   = errors.New("session not found")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrNoSavedViews      = errors.New("saved views are not configured")
)

// ServiceError represents a collection service error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return "collection service " + e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
