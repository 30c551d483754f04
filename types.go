package alphasign

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// ─── Protocol Constants ─────────────────────────────────────────────────────────

// Control characters used by the Alpha Sign Communications Protocol.
const (
	NUL = 0x00
	SOH = 0x01
	STX = 0x02
	ETX = 0x03
	EOT = 0x04
	ESC = 0x1B
	CR  = 0x0D
)

// Command codes. Each one is the first byte of a command payload and is the
// byte that Frame.CommandTag returns.
const (
	// CmdWriteText writes a TEXT file.
	CmdWriteText byte = 'A'

	// CmdWriteSpecial executes a special function (memory configuration,
	// run sequence, beep, reset...). The byte after it selects the function.
	CmdWriteSpecial byte = 'E'

	// CmdWriteString writes a STRING file.
	CmdWriteString byte = 'G'

	// CmdWriteSmallDots writes a SMALL DOTS PICTURE file.
	CmdWriteSmallDots byte = 'I'

	// CmdWriteRGBDots writes an RGB DOTS PICTURE file.
	CmdWriteRGBDots byte = 'K'

	// CmdWriteLargeDots writes a LARGE DOTS PICTURE file.
	CmdWriteLargeDots byte = 'M'
)

// Special function labels, sent right after CmdWriteSpecial.
const (
	// SpecialMemoryConfig is the legacy memory allocation directory ("E$").
	// It addresses TEXT, STRING and SMALL DOTS PICTURE files.
	SpecialMemoryConfig byte = '$'

	// SpecialLargeMemoryConfig is the extended allocation directory ("E8")
	// used for LARGE and RGB DOTS PICTURE files.
	SpecialLargeMemoryConfig byte = '8'

	// SpecialRunSequence sets the display order of TEXT files ("E.").
	SpecialRunSequence byte = '.'

	// SpecialTone drives the speaker ("E(").
	SpecialTone byte = '('

	// SpecialSoftReset resets the sign without clearing memory ("E,").
	SpecialSoftReset byte = ','
)

const (
	// Unlocked files may be changed from the IR keyboard.
	Unlocked byte = 'U'

	// Locked files may not be changed from the IR keyboard.
	Locked byte = 'L'
)

const (
	// DefaultSmallDotsDelay is the pause the sign needs after the width
	// field of a SMALL DOTS PICTURE write before the row data arrives.
	DefaultSmallDotsDelay = 100 * time.Millisecond

	// DefaultChunkDelay is the pause between packets of a LARGE or RGB
	// DOTS PICTURE write on a packet oriented link.
	DefaultChunkDelay = 50 * time.Millisecond

	// DefaultTimeout is the initial read/write timeout of a serial line.
	DefaultTimeout = 1 * time.Second

	// DefaultBaudRate is the line speed every Alpha sign supports.
	DefaultBaudRate = 4800

	// SmallDotsSplitOffset is where a framed SMALL DOTS PICTURE write is
	// split: 10 bytes of envelope, the command code, the 1 byte label and
	// the 4 byte RRCC dimension field.
	SmallDotsSplitOffset = 16
)

// ─── File Kinds ─────────────────────────────────────────────────────────────────

// FileKind identifies the type of an on-sign file.
type FileKind int

const (
	KindUnknown FileKind = iota
	KindText
	KindString
	KindSmallDots
	KindLargeDots
	KindRGBDots
)

// String returns a readable name for the kind.
func (k FileKind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindString:
		return "String"
	case KindSmallDots:
		return "SmallDots"
	case KindLargeDots:
		return "LargeDots"
	case KindRGBDots:
		return "RGBDots"
	default:
		return "Unknown"
	}
}

// IsDots reports whether k is one of the dots picture kinds.
func (k FileKind) IsDots() bool {
	return k == KindSmallDots || k == KindLargeDots || k == KindRGBDots
}

// ─── Color Status ───────────────────────────────────────────────────────────────

// ColorStatus is the 4 character code that tells the sign how to interpret
// the pixel data of a dots picture.
type ColorStatus string

const (
	// ColorMonochrome: one color, pixels are '0' or '1'.
	ColorMonochrome ColorStatus = "1000"

	// ColorTricolor: red, green and amber.
	ColorTricolor ColorStatus = "2000"

	// ColorOctocolor: eight colors.
	ColorOctocolor ColorStatus = "4000"

	// ColorRGB: each pixel is a 6 hex digit RRGGBB group.
	ColorRGB ColorStatus = "8000"
)

// String returns a readable name for the color status.
func (c ColorStatus) String() string {
	switch c {
	case ColorMonochrome:
		return "monochrome"
	case ColorTricolor:
		return "3-color"
	case ColorOctocolor:
		return "8-color"
	case ColorRGB:
		return "RGB"
	default:
		return "invalid(" + string(c) + ")"
	}
}

// ─── Options ────────────────────────────────────────────────────────────────────

// TransportOption configures a Transport.
// Functional Options pattern.
type TransportOption func(*transportOptions)

type transportOptions struct {
	smallDotsDelay time.Duration
	chunkDelay     time.Duration
	logger         hclog.Logger
	sleep          func(time.Duration)
}

func defaultTransportOptions() transportOptions {
	return transportOptions{
		smallDotsDelay: DefaultSmallDotsDelay,
		chunkDelay:     DefaultChunkDelay,
		logger:         hclog.NewNullLogger(),
		sleep:          time.Sleep,
	}
}

// WithSmallDotsDelay sets the pause between the two halves of a SMALL DOTS
// PICTURE write.
//
//	tr := alphasign.NewTransport(dial,
//	    alphasign.WithSmallDotsDelay(150*time.Millisecond),
//	)
func WithSmallDotsDelay(d time.Duration) TransportOption {
	return func(o *transportOptions) {
		o.smallDotsDelay = d
	}
}

// WithChunkDelay sets the pause between packets of a LARGE or RGB DOTS
// PICTURE write.
func WithChunkDelay(d time.Duration) TransportOption {
	return func(o *transportOptions) {
		o.chunkDelay = d
	}
}

// WithLogger sets the logger. Logging is disabled by default.
func WithLogger(l hclog.Logger) TransportOption {
	return func(o *transportOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSleep replaces time.Sleep for the inter-write delays.
func WithSleep(fn func(time.Duration)) TransportOption {
	return func(o *transportOptions) {
		if fn != nil {
			o.sleep = fn
		}
	}
}
