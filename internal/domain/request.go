package domain

import (
	"encoding/json"
	"unicode/utf8"
)

type rawRequest struct {
	From     *string `json:"from"`
	Subject  *string `json:"subject"`
	Contents *string `json:"contents"`
}

// ParseMessageRequest decodes a creation body. Non UTF-8 input yields
// ErrInvalidBodyType; anything that is not an object carrying all three
// string fields yields ErrInvalidRequest.
func ParseMessageRequest(body []byte) (MessageRequest, error) {
	if !utf8.Valid(body) {
		return MessageRequest{}, ErrInvalidBodyType
	}

	var raw rawRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return MessageRequest{}, ErrInvalidRequest
	}
	if raw.From == nil || raw.Subject == nil || raw.Contents == nil {
		return MessageRequest{}, ErrInvalidRequest
	}

	return MessageRequest{
		From:     *raw.From,
		Subject:  *raw.Subject,
		Contents: *raw.Contents,
	}, nil
}
