package alphasign

import (
	"bytes"
	"fmt"
)

// ─── Memory Allocation Directory ────────────────────────────────────────────────
//
// Before files can be written the sign has to reserve memory for them. Two
// record layouts exist and each belongs to its own special function:
//
//	short (E$): [label][type][lock][size 4 hex][aux 4]
//	            TEXT:        type 'A', size = bytes, aux = run qualifier
//	            STRING:      type 'B', size = bytes, aux = "0000"
//	            SMALL DOTS:  type 'D', size = RRCC,  aux = color status
//
//	long  (E8): [label 9][lock][size RRRRCCCC][color status]["00"]
//	            LARGE DOTS and RGB DOTS; the type follows from the directory.
//
// A batch holding both layouts is sent as two commands, short first.

// Layout selects the record format of an allocation entry.
type Layout int

const (
	LayoutShort Layout = iota + 1
	LayoutLong
)

// String returns a readable name for the layout.
func (l Layout) String() string {
	switch l {
	case LayoutShort:
		return "short"
	case LayoutLong:
		return "long"
	default:
		return "unknown"
	}
}

// Allocation type codes of the short layout.
const (
	allocTypeText      byte = 'A'
	allocTypeString    byte = 'B'
	allocTypeSmallDots byte = 'D'

	// longReserved trails every long layout record.
	longReserved = "00"
)

// LayoutOf returns the allocation layout used for kind.
func LayoutOf(kind FileKind) (Layout, error) {
	switch kind {
	case KindText, KindString, KindSmallDots:
		return LayoutShort, nil
	case KindLargeDots, KindRGBDots:
		return LayoutLong, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFileKind, kind)
	}
}

// DirectoryCode returns the special function label that carries records of
// the given layout.
func DirectoryCode(l Layout) byte {
	if l == LayoutLong {
		return SpecialLargeMemoryConfig
	}
	return SpecialMemoryConfig
}

// AllocationRecord is one entry of an allocation directory.
type AllocationRecord struct {
	Layout Layout
	Kind   FileKind
	Label  string
	Bytes  []byte
}

type recordEncoder func(f DeviceFile) ([]byte, error)

var recordEncoders = map[FileKind]recordEncoder{
	KindText:      encodeTextRecord,
	KindString:    encodeStringRecord,
	KindSmallDots: encodeSmallDotsRecord,
	KindLargeDots: encodeLongDotsRecord,
	KindRGBDots:   encodeLongDotsRecord,
}

func encodeTextRecord(f DeviceFile) ([]byte, error) {
	t, ok := f.(*Text)
	if !ok || t == nil {
		return nil, mismatch(f)
	}
	return shortRecord(t.label, allocTypeText, Unlocked, encodeHex(t.size, 4), t.run), nil
}

func encodeStringRecord(f DeviceFile) ([]byte, error) {
	s, ok := f.(*String)
	if !ok || s == nil {
		return nil, mismatch(f)
	}
	return shortRecord(s.label, allocTypeString, Locked, encodeHex(s.size, 4), "0000"), nil
}

func encodeSmallDotsRecord(f DeviceFile) ([]byte, error) {
	p, ok := f.(*DotsPicture)
	if !ok || p == nil || p.Kind() != KindSmallDots {
		return nil, mismatch(f)
	}
	return shortRecord(p.label, allocTypeSmallDots, Unlocked, p.size, string(p.color)), nil
}

func encodeLongDotsRecord(f DeviceFile) ([]byte, error) {
	p, ok := f.(*DotsPicture)
	if !ok || p == nil || p.Kind() != f.Kind() {
		return nil, mismatch(f)
	}
	var b bytes.Buffer
	b.WriteString(p.label)
	b.WriteByte(Unlocked)
	b.WriteString(p.size)
	b.WriteString(string(p.color))
	b.WriteString(longReserved)
	return b.Bytes(), nil
}

func shortRecord(label string, fileType, lock byte, size, aux string) []byte {
	var b bytes.Buffer
	b.WriteString(label)
	b.WriteByte(fileType)
	b.WriteByte(lock)
	b.WriteString(size)
	b.WriteString(aux)
	return b.Bytes()
}

// isNilFile reports whether f is nil or a nil pointer of a file type from
// this package. Methods on those nil pointers would panic.
func isNilFile(f DeviceFile) bool {
	switch v := f.(type) {
	case nil:
		return true
	case *Text:
		return v == nil
	case *String:
		return v == nil
	case *DotsPicture:
		return v == nil
	}
	return false
}

// mismatch reports a file whose Kind does not match a type this package can
// encode, e.g. a foreign type claiming KindText.
func mismatch(f DeviceFile) error {
	return fmt.Errorf("%w: %T reports kind %s", ErrUnsupportedFileKind, f, f.Kind())
}

// AllocationRecords encodes one record per file, in input order. Any file of
// an unknown kind fails the whole call.
func AllocationRecords(files []DeviceFile) ([]AllocationRecord, error) {
	records := make([]AllocationRecord, 0, len(files))
	for i, f := range files {
		if isNilFile(f) {
			return nil, fmt.Errorf("%w: file %d is nil", ErrUnsupportedFileKind, i)
		}
		layout, err := LayoutOf(f.Kind())
		if err != nil {
			return nil, fmt.Errorf("file %d (%q): %w", i, f.Label(), err)
		}
		data, err := recordEncoders[f.Kind()](f)
		if err != nil {
			return nil, fmt.Errorf("file %d (%q): %w", i, f.Label(), err)
		}
		records = append(records, AllocationRecord{
			Layout: layout,
			Kind:   f.Kind(),
			Label:  f.Label(),
			Bytes:  data,
		})
	}
	return records, nil
}

// BuildAllocation builds the memory allocation commands for files. It
// returns one command per layout present: the E$ directory for TEXT, STRING
// and SMALL DOTS files, then the E8 directory for LARGE and RGB DOTS files.
//
//	cmds, err := alphasign.BuildAllocation([]alphasign.DeviceFile{msg, pic})
//	for _, cmd := range cmds {
//	    tr.Write(framer.Frame(cmd))
//	}
func BuildAllocation(files []DeviceFile) ([]Command, error) {
	if len(files) == 0 {
		return nil, ErrEmptyAllocation
	}
	records, err := AllocationRecords(files)
	if err != nil {
		return nil, err
	}

	var cmds []Command
	for _, layout := range []Layout{LayoutShort, LayoutLong} {
		var body []byte
		found := false
		for _, r := range records {
			if r.Layout == layout {
				body = append(body, r.Bytes...)
				found = true
			}
		}
		if found {
			cmds = append(cmds, specialCommand(DirectoryCode(layout), body))
		}
	}
	return cmds, nil
}
