package message

import "errors"

var (
	ErrNotFound      = errors.New("message not found")
	ErrInvalidStatus = errors.New("invalid message status")
)
