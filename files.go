package alphasign

import "fmt"

// DeviceFile is an addressable file on the sign. The builders only need
// the label and the kind; everything else is read through the concrete
// types (*Text, *String, *DotsPicture).
type DeviceFile interface {
	Label() string
	Kind() FileKind
}

// Run qualifiers for TEXT files (start/stop time pair in the allocation
// record).
const (
	RunAlways = "FFFF"
	RunNever  = "FEFE"
	RunAllDay = "FDFD"
)

const (
	maxTextSize   = 0xFFFF
	maxStringSize = 125
)

// ─── Text ───────────────────────────────────────────────────────────────────────

// Text is a TEXT file: a message shown on the display.
type Text struct {
	label string
	data  string
	size  int
	run   string
}

// TextOption configures a Text.
type TextOption func(*Text)

// WithTextSize sets the number of bytes to reserve. It is raised to the data
// length when the data does not fit.
func WithTextSize(n int) TextOption {
	return func(t *Text) {
		t.size = n
	}
}

// WithRunQualifier sets the run qualifier written in the allocation record.
func WithRunQualifier(q string) TextOption {
	return func(t *Text) {
		t.run = q
	}
}

// NewText creates a TEXT file with a 1 character label.
//
//	msg, err := alphasign.NewText("A", "HELLO", alphasign.WithTextSize(256))
func NewText(label, data string, opts ...TextOption) (*Text, error) {
	t := &Text{label: label, data: data, size: 64, run: RunAlways}
	for _, opt := range opts {
		opt(t)
	}
	if len(label) != 1 {
		return nil, invalid(KindText, "label", "%q must be exactly 1 character", label)
	}
	if len(t.run) != 4 {
		return nil, invalid(KindText, "run qualifier", "%q must be 4 characters", t.run)
	}
	if t.size < len(data) {
		t.size = len(data)
	}
	if t.size < 1 || t.size > maxTextSize {
		return nil, invalid(KindText, "size", "%d out of range 1-%d", t.size, maxTextSize)
	}
	return t, nil
}

// Label returns the file label.
func (t *Text) Label() string { return t.label }

// Kind returns KindText.
func (t *Text) Kind() FileKind { return KindText }

// Size returns the number of bytes reserved on the sign.
func (t *Text) Size() int { return t.size }

// Data returns the text written to the file.
func (t *Text) Data() string { return t.data }

// RunQualifier returns the start/stop time pair, e.g. RunAlways.
func (t *Text) RunQualifier() string { return t.run }

// Serialize returns the write TEXT payload.
func (t *Text) Serialize() []byte {
	return []byte(fmt.Sprintf("%c%s%s", CmdWriteText, t.label, t.data))
}

// ─── String ─────────────────────────────────────────────────────────────────────

// String is a STRING file: a small variable that TEXT files can embed.
type String struct {
	label string
	data  string
	size  int
}

// NewString creates a STRING file. size is the number of bytes to reserve;
// it is raised to the data length when the data does not fit.
func NewString(label, data string, size int) (*String, error) {
	if len(label) != 1 {
		return nil, invalid(KindString, "label", "%q must be exactly 1 character", label)
	}
	if size < len(data) {
		size = len(data)
	}
	if size < 1 || size > maxStringSize {
		return nil, invalid(KindString, "size", "%d out of range 1-%d", size, maxStringSize)
	}
	return &String{label: label, data: data, size: size}, nil
}

// Label returns the file label.
func (s *String) Label() string { return s.label }

// Kind returns KindString.
func (s *String) Kind() FileKind { return KindString }

// Size returns the number of bytes reserved on the sign.
func (s *String) Size() int { return s.size }

// Data returns the text written to the file.
func (s *String) Data() string { return s.data }

// Serialize returns the write STRING payload.
func (s *String) Serialize() []byte {
	return []byte(fmt.Sprintf("%c%s%s", CmdWriteString, s.label, s.data))
}

// CallSequence returns the control code that embeds this string in a TEXT file.
func (s *String) CallSequence() string {
	return "\x10" + s.label
}
