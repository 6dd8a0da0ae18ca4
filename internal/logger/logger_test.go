package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetLevel("INFO")
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	t.Run("debug is suppressed at info", func(t *testing.T) {
		buf := capture(t)
		SetLevel("INFO")

		Debug("hidden %d", 1)
		Info("shown %d", 2)

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "shown 2")
	})

	t.Run("error level silences everything below", func(t *testing.T) {
		buf := capture(t)
		SetLevel("ERROR")

		Debug("a")
		Info("b")
		Warn("c")
		Error("boom")

		out := buf.String()
		assert.NotContains(t, out, "[INFO]")
		assert.NotContains(t, out, "[WARN]")
		assert.Contains(t, out, "boom")
	})

	t.Run("level names are case insensitive", func(t *testing.T) {
		buf := capture(t)
		SetLevel("debug")

		Debug("visible")
		assert.Contains(t, buf.String(), "visible")
	})

	t.Run("unknown level keeps the current one", func(t *testing.T) {
		buf := capture(t)
		SetLevel("WARN")
		SetLevel("chatty")

		Info("still hidden")
		assert.Empty(t, buf.String())
	})
}

func TestMessageFormat(t *testing.T) {
	buf := capture(t)
	SetLevel("INFO")

	Warn("disk %s at %d%%", "sda", 93)

	out := buf.String()
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "disk sda at 93%")
}
