package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return &Logger{zl: zerolog.New(buf)}
}

func TestFieldConstructorsRender(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf)

	l.Info("msg",
		String("s", "v"),
		Int("i", 7),
		Int64("elapsed_ms", int64(1500)),
		Float64("f", 1.25),
		Bool("b", true),
		Duration("d", 2*time.Second),
		Strings("list", []string{"a", "b"}),
	)

	out := buf.String()
	assert.Contains(t, out, `"s":"v"`)
	assert.Contains(t, out, `"i":7`)
	assert.Contains(t, out, `"elapsed_ms":1500`)
	assert.Contains(t, out, `"f":1.25`)
	assert.Contains(t, out, `"b":true`)
	assert.Contains(t, out, `"d":2000`)
	assert.Contains(t, out, `"list":"a, b"`)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Format: "json", Output: "stdout"})
	require.Error(t, err)
}
