package apperr

import "errors"

var (
	ErrTransport      = errors.New("catalog transport failed")
	ErrDecode         = errors.New("catalog decode failed")
	ErrAlreadyStarted = errors.New("already started")
)
