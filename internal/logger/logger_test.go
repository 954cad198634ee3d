package logger

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetLogger(t *testing.T) *strings.Builder {
	t.Helper()

	var buf strings.Builder
	SetOutput(&buf)
	SetVerbose(false)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestDebug_SilentByDefault(t *testing.T) {
	buf := resetLogger(t)

	Debug("should not appear")

	assert.Empty(t, buf.String())
}

func TestDebug_VisibleWhenVerbose(t *testing.T) {
	buf := resetLogger(t)
	SetVerbose(true)

	Debug("listening on port %d", 8080)

	assert.Contains(t, buf.String(), "listening on port 8080")
}

func TestInfo_GatedByVerbose(t *testing.T) {
	buf := resetLogger(t)

	Info("quiet")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Info("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestWarn_AlwaysVisible(t *testing.T) {
	buf := resetLogger(t)

	Warn("browser could not be opened")

	assert.Contains(t, buf.String(), "browser could not be opened")
}

func TestIsVerbose(t *testing.T) {
	resetLogger(t)

	assert.False(t, IsVerbose())
	SetVerbose(true)
	assert.True(t, IsVerbose())
	SetVerbose(false)
	assert.False(t, IsVerbose())
}
