package errorx

import (
	"errors"
	"fmt"
	"time"
)

type Error struct {
	Code    Code
	Message string

	// RetryAt is the earliest time the same request may succeed. Nil means the
	// rejection is final.
	RetryAt *time.Time
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func (e Error) Error() string {
	return e.Message
}

func (e Error) WithRetryAt(t time.Time) Error {
	e.RetryAt = &t
	return e
}

// Is reports whether err is an Error with the given code.
func Is(err error, code Code) bool {
	var errx Error
	if errors.As(err, &errx) {
		return errx.Code == code
	}

	return false
}
