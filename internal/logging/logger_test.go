package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/logging"
)

func TestNew_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, "warn", "json")

	log.Info("dropped")
	log.Warn("kept", "file", "stops.txt")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "stops.txt", line["file"])
}

func TestNew_TextIsDefault(t *testing.T) {
	var buf bytes.Buffer
	logging.New(&buf, "", "").Info("hello")

	assert.Contains(t, buf.String(), "msg=hello")
}

func TestFromContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "info", "text"))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := logging.WithRequestID(context.Background(), "req-1")
	logging.FromContext(ctx).Info("validated")

	assert.Contains(t, buf.String(), "request_id=req-1")
}
