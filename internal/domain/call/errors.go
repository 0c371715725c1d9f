package call

import (
	"errors"
	"fmt"
)

// ErrCallActive is returned by Connect while a call is already connecting
// or connected. A second session is never opened.
var ErrCallActive = errors.New("call already in progress")

// ErrNotConnected is returned by operations that require a live call.
var ErrNotConnected = errors.New("not connected")

// TokenError means the join credential could not be issued.
type TokenError struct {
	Err error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token request failed: %v", e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

// ConnectionError means the room handshake or transport setup failed.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// RuntimeSessionError is a failure inside an established session, such as
// track handling. It is noted in the transcript without a state change.
type RuntimeSessionError struct {
	Op  string
	Err error
}

func (e *RuntimeSessionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RuntimeSessionError) Unwrap() error { return e.Err }
