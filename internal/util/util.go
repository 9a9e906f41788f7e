// Package util holds small helpers shared by the command line tool.
package util

import "errors"

type causer interface {
	Cause() error
}

type exitStatuser interface {
	ExitStatus() int
}

// GetExitStatus looks for an error carrying an explicit exit status in
// the chain of err, following both pkg/errors causes and %w wrapping.
// Without one the status is 1.
func GetExitStatus(err error) (int, bool) {
	for e := err; e != nil; {
		if ese, ok := e.(exitStatuser); ok {
			return ese.ExitStatus(), true
		}
		if cerr, ok := e.(causer); ok {
			e = cerr.Cause()
			continue
		}
		e = errors.Unwrap(e)
	}
	return 1, false
}

type exitStatusError struct {
	error
	status int
}

func (e exitStatusError) ExitStatus() int {
	return e.status
}

func (e exitStatusError) Unwrap() error {
	return e.error
}

// WithExitStatus attaches an exit status to err.
func WithExitStatus(err error, status int) error {
	return exitStatusError{error: err, status: status}
}
