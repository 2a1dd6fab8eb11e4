package http

import "errors"

var (
	// ErrConnClosed is reported when the peer closes the connection
	// before a complete request head arrives.
	ErrConnClosed = errors.New("connection closed before a complete request head")
	// ErrNoContentLength is reported by Body when the request declared
	// no Content-Length but the caller still expects a body.
	ErrNoContentLength = errors.New("missing content-length")
	// ErrDoubleRespond is reported by a Respond attempt after a response
	// has already been written. The wire is left untouched.
	ErrDoubleRespond = errors.New("a response has already been written")
)
