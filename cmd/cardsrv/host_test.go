package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleHost_Notify(t *testing.T) {
	var out, logs bytes.Buffer
	h := newConsoleHost(&out, zerolog.New(&logs))

	h.Notify("Card Generator server started at http://localhost:8766")

	assert.Equal(t, "Card Generator server started at http://localhost:8766\n", out.String())
	assert.Contains(t, logs.String(), `"notification":"Card Generator server started at http://localhost:8766"`)
}

func TestConsoleHost_AfterFunc(t *testing.T) {
	h := newConsoleHost(new(bytes.Buffer), zerolog.Nop())

	done := make(chan struct{})
	h.AfterFunc(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "callback was not run")
	}
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, newLogger("dev").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger("prod").GetLevel())
	assert.Equal(t, zerolog.Disabled, newLogger("none").GetLevel())
}
