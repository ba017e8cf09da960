package model

// ValidationError reports request data rejected before reaching the backend
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + e.Reason
}

// ErrInvalid builds a ValidationError
func ErrInvalid(reason string) error {
	return &ValidationError{Reason: reason}
}
