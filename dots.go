package alphasign

import (
	"strings"
	"unicode/utf8"
)

// ─── Dots Pictures ──────────────────────────────────────────────────────────────
//
// A DOTS PICTURE is a bitmap stored on the sign. The three variants share
// one encoding and differ only in the limits kept in dotsVariant:
//
//	[command code][label][height][width][row CR][row CR]...
//
// Every row is terminated by CR, including the last one.

// dotsVariant holds everything that differs between the picture variants.
type dotsVariant struct {
	kind       FileKind
	command    byte
	labelLen   int
	maxHeight  int
	maxWidth   int
	digits     int
	colors     []ColorStatus
	callCode   string
	holdSuffix string
}

var (
	smallDotsVariant = dotsVariant{
		kind:      KindSmallDots,
		command:   CmdWriteSmallDots,
		labelLen:  1,
		maxHeight: 31,
		maxWidth:  255,
		digits:    2,
		colors:    []ColorStatus{ColorMonochrome, ColorTricolor, ColorOctocolor},
		callCode:  "p1",
	}

	largeDotsVariant = dotsVariant{
		kind:       KindLargeDots,
		command:    CmdWriteLargeDots,
		labelLen:   9,
		maxHeight:  65535,
		maxWidth:   65535,
		digits:     4,
		colors:     []ColorStatus{ColorMonochrome, ColorTricolor, ColorOctocolor},
		callCode:   "p2",
		holdSuffix: "0000",
	}

	rgbDotsVariant = dotsVariant{
		kind:       KindRGBDots,
		command:    CmdWriteRGBDots,
		labelLen:   9,
		maxHeight:  65535,
		maxWidth:   65535,
		digits:     4,
		colors:     []ColorStatus{ColorRGB},
		callCode:   "p2",
		holdSuffix: "0000",
	}
)

func (v dotsVariant) allows(c ColorStatus) bool {
	for _, allowed := range v.colors {
		if c == allowed {
			return true
		}
	}
	return false
}

// DotsPicture is an immutable SMALL, LARGE or RGB DOTS PICTURE file.
// Use NewSmallDots, NewLargeDots or NewRGBDots to create one.
type DotsPicture struct {
	variant dotsVariant
	label   string
	height  int
	width   int
	color   ColorStatus
	rows    []string
	size    string
}

// NewSmallDots creates a SMALL DOTS PICTURE: 1 character label, up to
// 31 rows of 255 pixels.
//
//	pic, err := alphasign.NewSmallDots("1", 7, 5, rows, alphasign.ColorMonochrome)
func NewSmallDots(label string, height, width int, rows []string, color ColorStatus) (*DotsPicture, error) {
	return newDotsPicture(smallDotsVariant, label, height, width, rows, color)
}

// NewLargeDots creates a LARGE DOTS PICTURE: 9 character label, up to
// 65535x65535 pixels.
func NewLargeDots(label string, height, width int, rows []string, color ColorStatus) (*DotsPicture, error) {
	return newDotsPicture(largeDotsVariant, label, height, width, rows, color)
}

// NewRGBDots creates an RGB DOTS PICTURE. Each pixel of a row is expected to
// be a 6 hex digit RRGGBB group; rows are not checked, see ValidRGBRow.
func NewRGBDots(label string, height, width int, rows []string) (*DotsPicture, error) {
	return newDotsPicture(rgbDotsVariant, label, height, width, rows, ColorRGB)
}

func newDotsPicture(v dotsVariant, label string, height, width int, rows []string, color ColorStatus) (*DotsPicture, error) {
	if n := utf8.RuneCountInString(label); n != v.labelLen || len(label) != v.labelLen {
		return nil, invalid(v.kind, "label", "%q must be exactly %d ASCII character(s)", label, v.labelLen)
	}
	if height < 0 || height > v.maxHeight {
		return nil, invalid(v.kind, "height", "%d out of range 0-%d", height, v.maxHeight)
	}
	if width < 0 || width > v.maxWidth {
		return nil, invalid(v.kind, "width", "%d out of range 0-%d", width, v.maxWidth)
	}
	if !v.allows(color) {
		return nil, invalid(v.kind, "color status", "%q not allowed", string(color))
	}

	return &DotsPicture{
		variant: v,
		label:   label,
		height:  height,
		width:   width,
		color:   color,
		rows:    append([]string(nil), rows...),
		size:    EncodeDimensions(height, width, v.digits),
	}, nil
}

// Label returns the file label.
func (p *DotsPicture) Label() string { return p.label }

// Kind returns KindSmallDots, KindLargeDots or KindRGBDots.
func (p *DotsPicture) Kind() FileKind { return p.variant.kind }

// Height returns the picture height in pixels.
func (p *DotsPicture) Height() int { return p.height }

// Width returns the picture width in pixels.
func (p *DotsPicture) Width() int { return p.width }

// ColorStatus returns the color status code used in the allocation record.
func (p *DotsPicture) ColorStatus() ColorStatus { return p.color }

// Size returns the dimension field computed when the picture was created.
func (p *DotsPicture) Size() string { return p.size }

// Rows returns a copy of the pixel rows.
func (p *DotsPicture) Rows() []string {
	return append([]string(nil), p.rows...)
}

// Serialize returns the write command payload for the picture.
func (p *DotsPicture) Serialize() []byte {
	var b strings.Builder
	b.WriteByte(p.variant.command)
	b.WriteString(p.label)
	b.WriteString(p.size)
	for _, row := range p.rows {
		b.WriteString(row)
		b.WriteByte(CR)
	}
	return []byte(b.String())
}

// CallSequence returns the control code that shows this picture from inside
// a TEXT file.
//
//	small: ESC p1 <label>
//	large: ESC p2 <label> 0000
func (p *DotsPicture) CallSequence() string {
	return string(rune(ESC)) + p.variant.callCode + p.label + p.variant.holdSuffix
}

// ValidRGBRow reports whether row is made of whole RRGGBB hex groups.
func ValidRGBRow(row string) bool {
	if len(row)%6 != 0 {
		return false
	}
	for i := 0; i < len(row); i++ {
		c := row[i]
		if !('0' <= c && c <= '9' || 'A' <= c && c <= 'F' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}
