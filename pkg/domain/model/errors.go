package model

import "errors"

var (
	// ErrParse is returned when a branch or version string does not match the release pattern
	ErrParse = errors.New("not a release branch")

	// ErrInsufficientHistory is returned when too few release branches exist to find a previous release
	ErrInsufficientHistory = errors.New("insufficient release history")

	// ErrMissingArgument is returned when a required input is absent
	ErrMissingArgument = errors.New("missing required argument")

	// ErrInvalidConfig is returned when configuration values cannot be used
	ErrInvalidConfig = errors.New("invalid configuration")
)
