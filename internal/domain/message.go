package domain

import "time"

const (
	MaxFromChars    = 255
	MaxSubjectChars = 255

	// DefaultMaxContentsChars is the contents cap used when none is configured.
	DefaultMaxContentsChars = 4096
)

// Message Invariants:
// 1. Identity: ID is unique and never changes once assigned.
// 2. Immutability: a stored message is only ever removed, never partially updated.
// 3. Timestamp: assigned by the processor when the record is created, never by a client.
type Message struct {
	ID        string    `json:"message_id"`
	From      string    `json:"from"`
	Subject   string    `json:"subject"`
	Contents  string    `json:"contents"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageHead is the listing view of a Message. It is only built through Message.Head.
type MessageHead struct {
	ID        string    `json:"message_id"`
	From      string    `json:"from"`
	Subject   string    `json:"subject"`
	Timestamp time.Time `json:"timestamp"`
}

func (m Message) Head() MessageHead {
	return MessageHead{
		ID:        m.ID,
		From:      m.From,
		Subject:   m.Subject,
		Timestamp: m.Timestamp,
	}
}

// MessageRequest is the untrusted creation payload sent by clients.
type MessageRequest struct {
	From     string `json:"from"`
	Subject  string `json:"subject"`
	Contents string `json:"contents"`
}

// Limits bounds the text fields of a MessageRequest.
type Limits struct {
	From     int
	Subject  int
	Contents int
}

func DefaultLimits() Limits {
	return Limits{
		From:     MaxFromChars,
		Subject:  MaxSubjectChars,
		Contents: DefaultMaxContentsChars,
	}
}

// Sanitize returns a copy of the request with every field truncated to its limit.
func (r MessageRequest) Sanitize(l Limits) MessageRequest {
	return MessageRequest{
		From:     Truncate(r.From, l.From),
		Subject:  Truncate(r.Subject, l.Subject),
		Contents: Truncate(r.Contents, l.Contents),
	}
}
