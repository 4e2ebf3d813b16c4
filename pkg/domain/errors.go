package domain

import "errors"

// ErrMalformedTrace is returned by the parse boundary when a document lacks
// the fields required to build a Trace.
var ErrMalformedTrace = errors.New("malformed trace")

// ErrViewNotFound is returned when no preferences are stored for a view ID.
var ErrViewNotFound = errors.New("view not found")

// ErrUnknownCommand is returned when a control command is not recognized.
var ErrUnknownCommand = errors.New("unknown command")

// ErrInvalidInput is returned when a view ID or command argument is too
// large or not valid UTF-8.
var ErrInvalidInput = errors.New("invalid input")
