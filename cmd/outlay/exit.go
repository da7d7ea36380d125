package main

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	exitFailure  = 1
	exitPartial  = 2
	exitInvalid  = 3
	exitNotFound = 4
)

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e exitError) Unwrap() error {
	return e.err
}

func (e exitError) ExitCode() int {
	if e.code == 0 {
		return exitFailure
	}
	return e.code
}

// exitCode maps typed calculation errors to distinct exit codes so scripts
// can tell bad input from missing catalog entries.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var coded exitError
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	switch status.Code(err) {
	case codes.InvalidArgument:
		return exitInvalid
	case codes.NotFound:
		return exitNotFound
	default:
		return exitFailure
	}
}

func invalid(err error) error {
	return exitError{code: exitInvalid, err: err}
}

// asInvalid marks untyped errors as bad input and leaves typed ones alone.
func asInvalid(err error) error {
	if status.Code(err) == codes.Unknown {
		return invalid(err)
	}
	return err
}
