package film

import "errors"

var (
	ErrNotFound     = errors.New("film: not found")
	ErrInvalidInput = errors.New("film: invalid input")
)
