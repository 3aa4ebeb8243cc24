package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("something"))
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info("booking id=%d created", 1)
	log.Warn("slot id=%d is full", 2)
	log.Error("db down: %v", "timeout")

	out := buf.String()
	assert.NotContains(t, out, "booking id=1")
	assert.Contains(t, out, "[WARN] slot id=2 is full")
	assert.Contains(t, out, "[ERROR] db down: timeout")
}
