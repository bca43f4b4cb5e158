package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeskill/internal/logging"
)

func TestNewMessage(t *testing.T) {
	at := time.Date(2024, 5, 1, 14, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	msg, err := NewMessage("user.registered", map[string]string{"userId": "u1"}, at)
	require.NoError(t, err)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"user.registered","payload":{"userId":"u1"},"occurredAt":"2024-05-01T07:00:00Z"}`, string(raw))

	_, err = NewMessage("bad", make(chan int), at)
	assert.Error(t, err)
}

func TestPublishWithoutChannel(t *testing.T) {
	c := &Client{queue: DefaultQueue, logger: logging.Discard()}
	assert.Error(t, c.Publish(context.Background(), "user.registered", nil))
	assert.Error(t, c.Consume(context.Background(), LogHandler(logging.Discard())))
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := LogHandler(logging.NewWithWriter(&buf, "info"))
	msg, err := NewMessage("course.completed", map[string]string{"courseId": "c1"}, time.Now())
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), msg))
	assert.Contains(t, buf.String(), `"event":"course.completed"`)
	assert.Contains(t, buf.String(), `c1`)
}
