package alphasign

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ─── Delivery State ─────────────────────────────────────────────────────────────

// DeliveryState tells the caller how far a Send got before it returned.
type DeliveryState int

const (
	// NotStarted: no byte reached the link.
	NotStarted DeliveryState = iota

	// Partial: some bytes reached the link. The sign may hold a truncated
	// command, so recover it (e.g. SoftReset) before sending again.
	Partial

	// Complete: every byte and the end of transfer marker were written.
	Complete
)

// String returns a readable name for the state.
func (s DeliveryState) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Partial:
		return "partial"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Result describes one Send.
type Result struct {
	// TransferID correlates the log lines of one Send.
	TransferID string
	State      DeliveryState

	// Sent and Total count frame bytes.
	Sent  int
	Total int

	// Writes counts calls to Link.Write, including the zero length end of
	// transfer write.
	Writes int
}

// ─── Transport ──────────────────────────────────────────────────────────────────

// Transport delivers frames to one sign over one Link.
//
// Delivery depends on the command inside the frame:
//
//	SMALL DOTS (I):  two writes, split at SmallDotsSplitOffset, with the
//	                 small dots delay between them
//	LARGE/RGB (M/K): writes of at most Link.MaxPacketSize bytes, with the
//	                 chunk delay between them
//	others:          one write
//
// Packet links then receive a zero length write that ends the transfer.
//
// Every method locks the Transport, so concurrent callers are serialized.
// Nothing is retried.
//
//	tr := alphasign.NewTransport(alphasign.DialSerial(alphasign.SerialConfig{Device: "/dev/ttyS0"}))
//	defer tr.Disconnect()
//
//	if !tr.Write(framer.Frame(alphasign.SoftReset())) {
//	    log.Fatal("write failed")
//	}
type Transport struct {
	dial Dialer
	opts transportOptions

	// mu guards link and serializes writes.
	mu   sync.Mutex
	link Link
}

// NewTransport returns a Transport that opens its Link with dial. Nothing is
// opened until Connect or the first Send.
func NewTransport(dial Dialer, options ...TransportOption) *Transport {
	opts := defaultTransportOptions()
	for _, opt := range options {
		opt(&opts)
	}
	return &Transport{dial: dial, opts: opts}
}

// Connect opens the link. It does nothing when already connected.
func (t *Transport) Connect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connectLocked()
}

func (t *Transport) connectLocked() error {
	if t.link != nil {
		return nil
	}
	if t.dial == nil {
		return &TransportError{Op: "connect", Err: ErrNotConnected}
	}
	link, err := t.dial()
	if err != nil {
		t.opts.logger.Error("connect failed", "error", err)
		return &TransportError{Op: "connect", Err: err}
	}
	t.link = link
	t.opts.logger.Debug("connected", "max_packet_size", link.MaxPacketSize())
	return nil
}

// Disconnect closes the link. It is safe to call when not connected.
func (t *Transport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.link == nil {
		return nil
	}
	err := t.link.Close()
	t.link = nil
	if err != nil {
		return &TransportError{Op: "disconnect", Err: err}
	}
	t.opts.logger.Debug("disconnected")
	return nil
}

// IsConnected reports whether the link is open.
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.link != nil
}

// Write sends f and reports success. Use Send to learn how much of a failed
// frame reached the sign.
func (t *Transport) Write(f Frame) bool {
	_, err := t.Send(f)
	return err == nil
}

// Send delivers f, connecting first if needed. Errors are *TransportError.
func (t *Transport) Send(f Frame) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	res := Result{TransferID: uuid.NewString(), Total: len(f)}
	log := t.opts.logger.With("transfer_id", res.TransferID)

	if err := t.connectLocked(); err != nil {
		res.State = NotStarted
		return res, err
	}

	tag := f.CommandTag()
	log.Debug("sending frame", "command", string(rune(tag)), "bytes", len(f))

	err := t.deliver(f, tag, &res)
	if err == nil && t.link.MaxPacketSize() > 0 {
		_, err = t.link.Write(nil)
		res.Writes++
		if err != nil {
			err = &TransportError{Op: "write", Err: err}
		}
	}

	switch {
	case err == nil:
		res.State = Complete
		log.Debug("frame sent", "writes", res.Writes)
	case res.Sent == 0:
		res.State = NotStarted
	default:
		res.State = Partial
	}
	if err != nil {
		log.Error("write failed", "state", res.State, "sent", res.Sent, "total", res.Total, "error", err)
		return res, err
	}
	return res, nil
}

func (t *Transport) deliver(f Frame, tag byte, res *Result) error {
	switch tag {
	case CmdWriteSmallDots:
		if len(f) <= SmallDotsSplitOffset {
			return t.writeChunks(f, 0, 0, res)
		}
		if err := t.writeChunks(f[:SmallDotsSplitOffset], 0, 0, res); err != nil {
			return err
		}
		t.opts.sleep(t.opts.smallDotsDelay)
		return t.writeChunks(f[SmallDotsSplitOffset:], 0, 0, res)

	case CmdWriteLargeDots, CmdWriteRGBDots:
		return t.writeChunks(f, t.link.MaxPacketSize(), t.opts.chunkDelay, res)

	default:
		return t.writeChunks(f, 0, 0, res)
	}
}

// writeChunks writes data in pieces of at most limit bytes (0 = no limit),
// sleeping delay between pieces. A short write is not an error; the rest is
// sent on the next call.
func (t *Transport) writeChunks(data []byte, limit int, delay time.Duration, res *Result) error {
	for len(data) > 0 {
		n := len(data)
		if limit > 0 && n > limit {
			n = limit
		}
		written, err := t.link.Write(data[:n])
		res.Writes++
		if written > n {
			written = n
		}
		if written > 0 {
			res.Sent += written
			data = data[written:]
		}
		if err != nil {
			return &TransportError{Op: "write", Err: err}
		}
		if written <= 0 {
			return &TransportError{Op: "write", Err: ErrShortWrite}
		}
		if len(data) > 0 && delay > 0 {
			t.opts.sleep(delay)
		}
	}
	return nil
}
