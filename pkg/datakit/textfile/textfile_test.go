package textfile

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/randalmurphal/datakit/pkg/datakit/observability"
)

type fileOp struct {
	op   string
	size int
	err  error
}

type recordingMetrics struct {
	observability.NoopMetrics
	ops []fileOp
}

func (m *recordingMetrics) RecordFileOp(_ context.Context, op string, size int, err error) {
	m.ops = append(m.ops, fileOp{op: op, size: size, err: err})
}

func newTestManager(t *testing.T) (*Manager, *bytes.Buffer, *recordingMetrics) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	metrics := &recordingMetrics{}
	return New(logger, WithMetrics(metrics)), &buf, metrics
}

func TestWriteThenRead_RoundTrip(t *testing.T) {
	contents := []string{
		"",
		"hello",
		"line one\nline two\n",
		"naïve café ☕ 日本語 🚀",
		"\r\n\ttabs and crlf\r\n",
	}

	m, _, _ := newTestManager(t)
	ctx := context.Background()
	for i, content := range contents {
		path := filepath.Join(t.TempDir(), "file.txt")

		w := m.Write(ctx, path, content)
		require.True(t, w.OK(), "case %d: %v", i, w.Err)
		assert.Equal(t, content, w.Content)

		r := m.Read(ctx, path)
		require.True(t, r.OK(), "case %d: %v", i, r.Err)
		assert.Equal(t, content, r.Content)
	}
}

func TestWrite_CreatesParentDirectories(t *testing.T) {
	m, buf, metrics := newTestManager(t)
	path := filepath.Join(t.TempDir(), "a", "b", "c", "out.txt")

	res := m.Write(context.Background(), path, "nested")
	require.True(t, res.OK(), res.Err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "nested", string(data))

	assert.Contains(t, buf.String(), "file written")
	assert.Contains(t, buf.String(), "component=textfile")
	require.Len(t, metrics.ops, 1)
	assert.Equal(t, fileOp{op: "write", size: 6}, metrics.ops[0])
}

func TestWrite_Overwrites(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.txt")

	require.True(t, m.Write(ctx, path, "a much longer first version").OK())
	require.True(t, m.Write(ctx, path, "short").OK())

	assert.Equal(t, "short", m.Read(ctx, path).Content)
}

func TestRead_MissingFile(t *testing.T) {
	m, buf, metrics := newTestManager(t)
	path := filepath.Join(t.TempDir(), "missing.txt")

	res := m.Read(context.Background(), path)

	assert.False(t, res.OK())
	assert.Empty(t, res.Content)
	assert.ErrorIs(t, res.Err, os.ErrNotExist)
	assert.Contains(t, buf.String(), "file operation failed")
	assert.Contains(t, buf.String(), "operation=read")
	require.Len(t, metrics.ops, 1)
	assert.Equal(t, "read", metrics.ops[0].op)
	assert.Error(t, metrics.ops[0].err)
}

func TestRead_InvalidUTF8(t *testing.T) {
	m, buf, metrics := newTestManager(t)
	path := filepath.Join(t.TempDir(), "latin1.txt")
	require.NoError(t, os.WriteFile(path, []byte("caf\xe9"), 0o644))

	res := m.Read(context.Background(), path)

	assert.False(t, res.OK())
	assert.Empty(t, res.Content)
	assert.ErrorIs(t, res.Err, ErrInvalidUTF8)
	assert.Contains(t, buf.String(), "file operation failed")
	require.Len(t, metrics.ops, 1)
	assert.Error(t, metrics.ops[0].err)
}

func TestWrite_ParentIsAFile(t *testing.T) {
	m, buf, _ := newTestManager(t)
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	res := m.Write(context.Background(), filepath.Join(blocker, "child.txt"), "data")

	assert.False(t, res.OK())
	assert.Empty(t, res.Content)
	assert.Contains(t, buf.String(), "file operation failed")
	assert.Contains(t, buf.String(), "operation=write")
}

func TestWrite_TargetIsADirectory(t *testing.T) {
	m, _, _ := newTestManager(t)
	dir := t.TempDir()

	res := m.Write(context.Background(), dir, "data")

	assert.False(t, res.OK())
}

func TestNew_NilLoggerIsSilent(t *testing.T) {
	m := New(nil)
	res := m.Read(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.False(t, res.OK())
}

func TestPackageHelpers_UseDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "sub", "greeting.txt")
	require.True(t, WriteText(path, "hi there").OK())
	assert.Equal(t, "hi there", ReadText(path).Content)

	res := ReadText(filepath.Join(t.TempDir(), "nope.txt"))
	assert.False(t, res.OK())
	assert.Contains(t, buf.String(), "file operation failed")
}

type recordingSpans struct {
	observability.NoopSpanManager
	started []string
	errs    []error
}

func (s *recordingSpans) StartFileSpan(ctx context.Context, op, _ string) (context.Context, trace.Span) {
	s.started = append(s.started, op)
	return ctx, noop.Span{}
}

func (s *recordingSpans) EndSpanWithError(_ trace.Span, err error) {
	s.errs = append(s.errs, err)
}

func TestManager_Spans(t *testing.T) {
	spans := &recordingSpans{}
	m := New(nil, WithSpanManager(spans))
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "traced.txt")

	require.True(t, m.Write(ctx, path, "x").OK())
	assert.False(t, m.Read(ctx, path+".missing").OK())

	assert.Equal(t, []string{"write", "read"}, spans.started)
	require.Len(t, spans.errs, 2)
	assert.NoError(t, spans.errs[0])
	assert.ErrorIs(t, spans.errs[1], os.ErrNotExist)
}
