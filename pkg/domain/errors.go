package domain

import "errors"

var (
	ErrGeneration      = errors.New("generation failed")
	ErrEmptyCompletion = errors.New("no choices in completion response")
)
