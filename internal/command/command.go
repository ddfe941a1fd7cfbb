// Package command defines the envelope that carries a message mutation from
// the ingress gateway to the processor over the command bus.
//
// Wire shape:
//
//	{"command": {"Put": {"message_id": "...", "from": "...", "subject": "...", "contents": "..."}}}
//	{"command": {"Delete": {"message_id": "..."}}}
package command

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/SARVESHVARADKAR123/postbox/internal/domain"
)

const (
	KindPut    = "Put"
	KindDelete = "Delete"
)

// Command is a closed set: Put and Delete are its only implementations.
type Command interface {
	Kind() string
	MessageKey() string
	isCommand()
}

// Put asks the processor to store a new message. MessageID is assigned by the
// ingress gateway; envelopes produced without one get an id at apply time.
type Put struct {
	MessageID string `json:"message_id,omitempty"`
	From      string `json:"from"`
	Subject   string `json:"subject"`
	Contents  string `json:"contents"`
}

// Delete asks the processor to remove a message. Missing ids are a no-op.
type Delete struct {
	MessageID string `json:"message_id"`
}

func (Put) Kind() string    { return KindPut }
func (Delete) Kind() string { return KindDelete }

func (p Put) MessageKey() string    { return p.MessageID }
func (d Delete) MessageKey() string { return d.MessageID }

func (Put) isCommand()    {}
func (Delete) isCommand() {}

// NewPut builds a Put from an already sanitized request.
func NewPut(id string, req domain.MessageRequest) Put {
	return Put{
		MessageID: id,
		From:      req.From,
		Subject:   req.Subject,
		Contents:  req.Contents,
	}
}

type Envelope struct {
	Command Command
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	switch c := e.Command.(type) {
	case Put, Delete:
		return json.Marshal(struct {
			Command map[string]Command `json:"command"`
		}{
			Command: map[string]Command{c.Kind(): c},
		})
	default:
		return nil, fmt.Errorf("marshal envelope: %w: %T", domain.ErrUnknownCommand, e.Command)
	}
}

type wireEnvelope struct {
	Command map[string]json.RawMessage `json:"command"`
}

type wirePut struct {
	MessageID *string `json:"message_id"`
	From      *string `json:"from"`
	Subject   *string `json:"subject"`
	Contents  *string `json:"contents"`
}

type wireDelete struct {
	MessageID *string `json:"message_id"`
}

func (e *Envelope) UnmarshalJSON(b []byte) error {
	var w wireEnvelope
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if len(w.Command) != 1 {
		return fmt.Errorf("envelope must carry exactly one command, got %d", len(w.Command))
	}

	for kind, raw := range w.Command {
		if !isObject(raw) {
			return fmt.Errorf("command %q body is not an object", kind)
		}

		switch kind {
		case KindPut:
			var p wirePut
			if err := json.Unmarshal(raw, &p); err != nil {
				return err
			}
			if p.From == nil || p.Subject == nil || p.Contents == nil {
				return fmt.Errorf("put command missing required fields")
			}
			put := Put{From: *p.From, Subject: *p.Subject, Contents: *p.Contents}
			if p.MessageID != nil {
				put.MessageID = *p.MessageID
			}
			e.Command = put

		case KindDelete:
			var d wireDelete
			if err := json.Unmarshal(raw, &d); err != nil {
				return err
			}
			if d.MessageID == nil {
				return fmt.Errorf("delete command missing message_id")
			}
			e.Command = Delete{MessageID: *d.MessageID}

		default:
			return fmt.Errorf("%w: %q", domain.ErrUnknownCommand, kind)
		}
	}
	return nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// Marshal encodes an envelope for publishing.
func Marshal(e Envelope) ([]byte, error) {
	return json.Marshal(e)
}

// Parse decodes a bus record. It never fails: anything that is not a well-formed
// envelope is reported as absent.
func Parse(b []byte) (Envelope, bool) {
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, false
	}
	return e, true
}

// Delivery is one record as handed over by the bus: the encoded envelope plus
// the transport headers it travelled with.
type Delivery struct {
	Payload []byte
	Headers map[string]string
}
