package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageHead_OmitsContents(t *testing.T) {
	msg := Message{
		ID:        "msg-1",
		From:      "alice",
		Subject:   "hi",
		Contents:  "secret body",
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	head := msg.Head()
	assert.Equal(t, msg.ID, head.ID)
	assert.Equal(t, msg.From, head.From)
	assert.Equal(t, msg.Subject, head.Subject)
	assert.Equal(t, msg.Timestamp, head.Timestamp)

	raw, err := json.Marshal(head)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Len(t, fields, 4)
	for _, k := range []string{"message_id", "from", "subject", "timestamp"} {
		assert.Contains(t, fields, k)
	}
	assert.NotContains(t, fields, "contents")
}

func TestMessageRequest_Sanitize(t *testing.T) {
	req := MessageRequest{
		From:     strings.Repeat("f", 300),
		Subject:  strings.Repeat("s", 256),
		Contents: strings.Repeat("c", 5000),
	}

	got := req.Sanitize(DefaultLimits())
	assert.Equal(t, strings.Repeat("f", 255), got.From)
	assert.Equal(t, strings.Repeat("s", 255), got.Subject)
	assert.Equal(t, strings.Repeat("c", DefaultMaxContentsChars), got.Contents)

	empty := MessageRequest{}.Sanitize(DefaultLimits())
	assert.Equal(t, MessageRequest{}, empty)
}
