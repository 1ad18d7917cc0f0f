package todo

import "errors"

var ErrNotFound = errors.New("todo not found")

const (
	notFoundMessage      = "Todo not found"
	internalErrorMessage = "Internal server error"
)

// ValidationError 表示调用方输入不合法，对应 400
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}
