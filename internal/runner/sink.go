package runner

import (
	"io"
	"sync"
)

// lockedWriter serialises writes from the stdout and stderr copiers onto one
// destination so each chunk lands whole and in arrival order.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newLockedWriter(w io.Writer) *lockedWriter {
	return &lockedWriter{w: w}
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
