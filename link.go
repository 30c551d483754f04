package alphasign

import (
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Link is an open connection to a sign.
type Link interface {
	// Write sends p and reports how many bytes the link accepted.
	Write(p []byte) (int, error)

	// Close releases the connection.
	Close() error

	// MaxPacketSize is the largest write the link accepts at once, or 0
	// for byte stream links such as a serial line.
	MaxPacketSize() int
}

// Dialer opens a Link. Transport calls it on Connect.
type Dialer func() (Link, error)

// ─── Debug Link ─────────────────────────────────────────────────────────────────

// DebugLink logs every write instead of sending it. It never fails.
type DebugLink struct {
	logger hclog.Logger

	mu      sync.Mutex
	written [][]byte
}

// NewDebugLink returns a DebugLink that logs through logger.
func NewDebugLink(logger hclog.Logger) *DebugLink {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &DebugLink{logger: logger}
}

// DialDebug returns a Dialer that always hands out link.
func DialDebug(link *DebugLink) Dialer {
	return func() (Link, error) {
		return link, nil
	}
}

// Write records p and logs it.
func (l *DebugLink) Write(p []byte) (int, error) {
	l.mu.Lock()
	l.written = append(l.written, append([]byte(nil), p...))
	l.mu.Unlock()

	l.logger.Info("writing packet", "bytes", len(p), "data", string(p))
	return len(p), nil
}

// Close does nothing.
func (l *DebugLink) Close() error { return nil }

// MaxPacketSize returns 0: a DebugLink behaves like a stream link.
func (l *DebugLink) MaxPacketSize() int { return 0 }

// Written returns a copy of every write seen so far.
func (l *DebugLink) Written() [][]byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([][]byte, len(l.written))
	for i, w := range l.written {
		out[i] = append([]byte(nil), w...)
	}
	return out
}
