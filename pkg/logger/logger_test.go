package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogKeyValues(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)

	Info("flushed import batch", "added", 3, "err", errors.New("boom"), "dangling")

	out := buf.String()
	assert.Contains(t, out, "flushed import batch")
	assert.Contains(t, out, `"added":3`)
	assert.Contains(t, out, `"err":"boom"`)
	assert.Contains(t, out, `"dangling":"MISSING"`)
}

func TestInitGlobalLoggerLevel(t *testing.T) {
	InitGlobalLogger(&Config{Level: "warn", Targets: []string{"console"}})

	buf := &bytes.Buffer{}
	SetOutput(buf)

	Info("hidden")
	Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
