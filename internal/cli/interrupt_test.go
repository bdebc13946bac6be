package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestInterruptHandler_InterruptOnce(t *testing.T) {
	out := &syncBuffer{}
	h := NewInterruptHandler(out, "Import")

	h.interrupt()
	h.interrupt()

	assert.True(t, h.WasInterrupted())
	assert.Equal(t, 1, bytes.Count([]byte(out.String()), []byte("Import interrupted!")))
	assert.Contains(t, out.String(), "Rows saved before the interrupt are kept.")
}

func TestInterruptHandler_StopCancelsContext(t *testing.T) {
	h := NewInterruptHandler(nil, "Import")
	ctx, stop := h.HandleInterrupts(context.Background())

	assert.NoError(t, ctx.Err())
	stop()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, h.WasInterrupted())
}
