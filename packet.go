package alphasign

import (
	"fmt"
)

// ─── Packet Framing ─────────────────────────────────────────────────────────────
//
// Every command travels inside the same envelope:
//
//	[5B]  NUL x5      line sync, lets the sign detect the baud rate
//	[1B]  SOH
//	[1B]  type code   'Z' = all sign types
//	[2B]  address     "00" = broadcast
//	[1B]  STX
//	[NB]  command     command code + data
//	      (ETX + 4 hex checksum, when enabled)
//	[1B]  EOT
//
// The command code therefore always sits at CommandTagOffset.

const (
	// CommandTagOffset is the position of the command code in a frame.
	CommandTagOffset = 10

	// DefaultTypeCode addresses every sign type.
	DefaultTypeCode byte = 'Z'

	// DefaultAddress is the broadcast address.
	DefaultAddress = "00"

	syncLength = 5
)

// Framer wraps a command payload into a wire frame.
type Framer interface {
	Frame(cmd Command) Frame
}

// FramerFunc adapts a function to the Framer interface.
type FramerFunc func(cmd Command) Frame

// Frame calls fn(cmd).
func (fn FramerFunc) Frame(cmd Command) Frame {
	return fn(cmd)
}

// Frame is a complete wire frame ready for a Transport.
type Frame []byte

// CommandTag returns the command code of the framed payload, or 0 when the
// frame is too short to hold one.
func (f Frame) CommandTag() byte {
	if len(f) <= CommandTagOffset {
		return 0
	}
	return f[CommandTagOffset]
}

// Bytes returns the raw frame.
func (f Frame) Bytes() []byte {
	return f
}

// PacketFramer is the standard Alpha packet envelope.
//
//	framer := alphasign.NewPacketFramer()
//	frame := framer.Frame(alphasign.SoftReset())
type PacketFramer struct {
	typeCode byte
	address  string
	checksum bool
}

// PacketOption configures a PacketFramer.
type PacketOption func(*PacketFramer)

// WithTypeCode addresses one sign type instead of all of them.
func WithTypeCode(code byte) PacketOption {
	return func(p *PacketFramer) {
		p.typeCode = code
	}
}

// WithAddress sets the 2 character hex sign address.
func WithAddress(addr string) PacketOption {
	return func(p *PacketFramer) {
		p.address = addr
	}
}

// WithChecksum appends ETX and a checksum so the sign can drop corrupted
// packets.
func WithChecksum(enabled bool) PacketOption {
	return func(p *PacketFramer) {
		p.checksum = enabled
	}
}

// NewPacketFramer returns a framer for the given options. The address must
// be exactly 2 characters.
func NewPacketFramer(opts ...PacketOption) (*PacketFramer, error) {
	p := &PacketFramer{typeCode: DefaultTypeCode, address: DefaultAddress}
	for _, opt := range opts {
		opt(p)
	}
	if len(p.address) != 2 {
		return nil, fmt.Errorf("sign address %q must be 2 characters", p.address)
	}
	return p, nil
}

// Frame wraps cmd.
func (p *PacketFramer) Frame(cmd Command) Frame {
	size := syncLength + 5 + len(cmd) + 1
	if p.checksum {
		size += 5
	}
	f := make(Frame, 0, size)
	for i := 0; i < syncLength; i++ {
		f = append(f, NUL)
	}
	f = append(f, SOH, p.typeCode)
	f = append(f, p.address...)
	f = append(f, STX)
	f = append(f, cmd...)
	if p.checksum {
		f = append(f, ETX)
		f = append(f, encodeHex(checksum(f[syncLength+4:]), 4)...)
	}
	return append(f, EOT)
}

// checksum is the 16 bit sum of every byte from STX through ETX.
func checksum(data []byte) int {
	sum := 0
	for _, b := range data {
		sum += int(b)
	}
	return sum & 0xFFFF
}
