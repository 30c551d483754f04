package alphasign

import (
	"fmt"
	"strconv"
	"strings"
)

// ─── Dimension Field ────────────────────────────────────────────────────────────
//
// Dots pictures carry their size as ASCII hex: height then width, each
// zero-padded to a fixed number of digits with no separator.
//
//	SMALL: 2 digits each  ->  "RRCC"      (31x255   -> "1FFF")
//	LARGE: 4 digits each  ->  "RRRRCCCC"  (300x1000 -> "012C03E8")
//
// A wrong digit count shifts every byte after it, so the sign reads the
// row data as garbage.

// encodeHex formats value as uppercase hex zero-padded to digits characters.
func encodeHex(value, digits int) string {
	s := strings.ToUpper(strconv.FormatUint(uint64(value), 16))
	if len(s) < digits {
		s = strings.Repeat("0", digits-len(s)) + s
	}
	return s
}

// EncodeDimensions returns the dimension field for height and width.
//
//	EncodeDimensions(31, 255, 2) // "1FFF"
func EncodeDimensions(height, width, digits int) string {
	return encodeHex(height, digits) + encodeHex(width, digits)
}

// DecodeDimensions parses a dimension field written with digits hex digits
// per dimension.
func DecodeDimensions(field string, digits int) (height, width int, err error) {
	if digits <= 0 {
		return 0, 0, fmt.Errorf("invalid digit count: %d", digits)
	}
	if len(field) != 2*digits {
		return 0, 0, fmt.Errorf("dimension field %q: want %d characters, got %d", field, 2*digits, len(field))
	}
	h, err := strconv.ParseUint(field[:digits], 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("dimension field %q: height: %w", field, err)
	}
	w, err := strconv.ParseUint(field[digits:], 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("dimension field %q: width: %w", field, err)
	}
	return int(h), int(w), nil
}
