package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerStartStop(t *testing.T) {
	var out lockedBuffer
	s := NewSpinner(&out, "Thinking...")
	s.interval = time.Millisecond

	s.Start()
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()
	s.Stop()

	got := out.String()
	assert.Contains(t, got, "Thinking...")
	assert.True(t, strings.HasSuffix(got, "\r\033[K"))

	s.Start()
	s.Stop()
}

func TestWithSpinnerSkipsNonTerminal(t *testing.T) {
	engine := WithSpinner(nil, nil)
	assert.Nil(t, engine)
}
