package domain

import "errors"

var (
	ErrInvalidBodyType  = errors.New("invalid request body type")
	ErrInvalidRequest   = errors.New("invalid request body")
	ErrInvalidMessageID = errors.New("invalid message id")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrMalformedRecord  = errors.New("malformed stored message")
)
