package command

import (
	"encoding/json"
	"testing"

	"github.com/SARVESHVARADKAR123/postbox/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_WireShape(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
		want string
	}{
		{
			name: "Put",
			env:  Envelope{Command: Put{MessageID: "m-1", From: "a", Subject: "b", Contents: "c"}},
			want: `{"command":{"Put":{"message_id":"m-1","from":"a","subject":"b","contents":"c"}}}`,
		},
		{
			name: "Delete",
			env:  Envelope{Command: Delete{MessageID: "m-1"}},
			want: `{"command":{"Delete":{"message_id":"m-1"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.env)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestMarshal_NilCommand(t *testing.T) {
	_, err := Marshal(Envelope{})
	assert.ErrorIs(t, err, domain.ErrUnknownCommand)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   Command
		wantOK bool
	}{
		{
			name:   "Put with id",
			raw:    `{"command":{"Put":{"message_id":"m-1","from":"a","subject":"b","contents":"c"}}}`,
			want:   Put{MessageID: "m-1", From: "a", Subject: "b", Contents: "c"},
			wantOK: true,
		},
		{
			name:   "Put without id",
			raw:    `{"command":{"Put":{"from":"a","subject":"b","contents":"c"}}}`,
			want:   Put{From: "a", Subject: "b", Contents: "c"},
			wantOK: true,
		},
		{
			name:   "Put with unknown field",
			raw:    `{"command":{"Put":{"from":"a","subject":"b","contents":"c","priority":3}}}`,
			want:   Put{From: "a", Subject: "b", Contents: "c"},
			wantOK: true,
		},
		{
			name:   "Delete",
			raw:    `{"command":{"Delete":{"message_id":"m-1"}}}`,
			want:   Delete{MessageID: "m-1"},
			wantOK: true,
		},
		{name: "Invalid JSON", raw: `{"command":`},
		{name: "Not JSON", raw: `hello`},
		{name: "Null", raw: `null`},
		{name: "Missing command", raw: `{"other":{}}`},
		{name: "Empty command", raw: `{"command":{}}`},
		{name: "Unknown variant", raw: `{"command":{"Update":{"message_id":"m-1"}}}`},
		{name: "Two variants", raw: `{"command":{"Delete":{"message_id":"m-1"},"Put":{"from":"a","subject":"b","contents":"c"}}}`},
		{name: "Positional body", raw: `{"command":{"Delete":["m-1"]}}`},
		{name: "Delete missing id", raw: `{"command":{"Delete":{}}}`},
		{name: "Put missing contents", raw: `{"command":{"Put":{"from":"a","subject":"b"}}}`},
		{name: "Wrong field type", raw: `{"command":{"Delete":{"message_id":42}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, ok := Parse([]byte(tt.raw))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, env.Command)
			} else {
				assert.Nil(t, env.Command)
			}
		})
	}
}

func TestEnvelope_EmbeddedInJSON(t *testing.T) {
	raw, err := json.Marshal(map[string]Envelope{"env": {Command: Delete{MessageID: "x"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"env":{"command":{"Delete":{"message_id":"x"}}}}`, string(raw))
}

func TestNewPut(t *testing.T) {
	p := NewPut("id-1", domain.MessageRequest{From: "a", Subject: "b", Contents: "c"})
	assert.Equal(t, KindPut, p.Kind())
	assert.Equal(t, "id-1", p.MessageKey())
	assert.Equal(t, Put{MessageID: "id-1", From: "a", Subject: "b", Contents: "c"}, p)
}
