package models

import "errors"

var (
	// ErrNotFound reports a missing session, descriptor or build file.
	ErrNotFound = errors.New("not found")

	// ErrParse reports malformed session JSON or compiler output.
	ErrParse = errors.New("parse error")

	// ErrProcess reports a compiler probe, build or server that failed to run.
	ErrProcess = errors.New("process error")
)
