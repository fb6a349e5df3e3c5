package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_PanicsWithoutLogger(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { FromContext(context.Background()) })
}

func TestFromContext_ReturnsEmbeddedLogger(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), logger)

	require.Same(t, logger, FromContext(ctx))
}

func TestRunIDHandler_AddsRunID(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	buf := &bytes.Buffer{}
	logger := slog.New(NewRunIDHandler(slog.NewTextHandler(buf, nil)))
	ctx := WithRunID(context.Background(), "abc123")

	// --- Act ---
	logger.InfoContext(ctx, "with id")
	logger.InfoContext(context.Background(), "without id")

	// --- Assert ---
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "run_id=abc123")
	assert.NotContains(t, string(lines[1]), "run_id")
}

func TestRunIDHandler_KeepsAttrsAndGroups(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(NewRunIDHandler(slog.NewTextHandler(buf, nil))).With("component", "test").WithGroup("g")
	ctx := WithRunID(context.Background(), "r1")

	logger.InfoContext(ctx, "msg", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "g.k=v")
	assert.Contains(t, out, "g.run_id=r1")
}

func TestRunID_EmptyIsAbsent(t *testing.T) {
	t.Parallel()

	_, ok := RunID(WithRunID(context.Background(), ""))
	require.False(t, ok)
}
