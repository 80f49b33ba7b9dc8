package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInfoWritesMessageAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: InfoLevel, TimeFormat: time.RFC3339, Output: &buf})

	l.Info("request processed", "method", "GET", "status", 200)

	out := buf.String()
	assert.Contains(t, out, "request processed")
	assert.Contains(t, out, "method")
	assert.Contains(t, out, "GET")
	assert.Contains(t, out, "status")
}

func TestLevelFiltersLowerEvents(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: WarnLevel, TimeFormat: time.RFC3339, Output: &buf})

	l.Info("too quiet")
	assert.Empty(t, buf.String())

	l.Warn("client error", "status", 404)
	assert.Contains(t, buf.String(), "client error")
}

func TestWithFieldsCarriesContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: InfoLevel, TimeFormat: time.RFC3339, Output: &buf})

	l.WithFields(map[string]interface{}{"component": "sync"}).Info("note saved")

	out := buf.String()
	assert.Contains(t, out, "component")
	assert.Contains(t, out, "sync")
	assert.Contains(t, out, "note saved")
}
