package alphasign

import (
	"fmt"
	"time"
)

// Command is an unframed command payload: a command code followed by its
// data. Pass it to a Framer before sending.
type Command []byte

// Tag returns the command code, or 0 for an empty command.
func (c Command) Tag() byte {
	if len(c) == 0 {
		return 0
	}
	return c[0]
}

// specialCommand builds "E" + label + body.
func specialCommand(label byte, body []byte) Command {
	cmd := make(Command, 0, 2+len(body))
	cmd = append(cmd, CmdWriteSpecial, label)
	return append(cmd, body...)
}

// ─── Special Functions ──────────────────────────────────────────────────────────

// ClearMemory returns an empty memory configuration, which erases every
// file on the sign. Give the sign about a second before the next command.
func ClearMemory() Command {
	return specialCommand(SpecialMemoryConfig, nil)
}

// SoftReset restarts the sign without touching its memory.
func SoftReset() Command {
	return specialCommand(SpecialSoftReset, nil)
}

// Beep makes the speaker sound.
//
//	frequency: 0-254 (not Hz)
//	duration:  100ms-1.5s, in 100ms steps
//	repeat:    0-15
//
// Out of range values are clamped.
func Beep(frequency int, duration time.Duration, repeat int) Command {
	frequency = clamp(frequency, 0, 254)
	tenths := clamp(int(duration/(100*time.Millisecond)), 1, 15)
	repeat = clamp(repeat, 0, 15)

	body := fmt.Sprintf("2%02X%X%X", frequency, tenths, repeat)
	return specialCommand(SpecialTone, []byte(body))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ─── Run Sequence ───────────────────────────────────────────────────────────────

// BuildRunSequence returns the command that sets the display order of the
// TEXT files in files. STRING and dots picture files are skipped because the
// sign never shows them on their own; unknown kinds are an error.
//
//	E . T <U|L> <label>...
//
// locked prevents the sequence from being changed with the IR keyboard.
func BuildRunSequence(files []DeviceFile, locked bool) (Command, error) {
	lock := Unlocked
	if locked {
		lock = Locked
	}
	body := []byte{'T', lock}
	for i, f := range files {
		if isNilFile(f) {
			return nil, fmt.Errorf("%w: file %d is nil", ErrUnsupportedFileKind, i)
		}
		if _, err := LayoutOf(f.Kind()); err != nil {
			return nil, fmt.Errorf("file %d (%q): %w", i, f.Label(), err)
		}
		if f.Kind() == KindText {
			body = append(body, f.Label()...)
		}
	}
	return specialCommand(SpecialRunSequence, body), nil
}
