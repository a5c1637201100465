package model

import "errors"

var (
	ErrInvalidFlags    = errors.New("invalid flags")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownProvider = errors.New("unknown provider")
)
