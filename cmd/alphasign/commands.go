package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alparslanahmed/alphasign"
)

func newBeepCmd() *cobra.Command {
	var (
		frequency int
		duration  time.Duration
		repeat    int
	)
	cmd := &cobra.Command{
		Use:   "beep",
		Short: "Sound the sign's speaker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(s *session) error {
				return s.send(alphasign.Beep(frequency, duration, repeat))
			})
		},
	}
	cmd.Flags().IntVarP(&frequency, "frequency", "f", 0, "Tone, 0-254")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 100*time.Millisecond, "Length, 100ms-1.5s")
	cmd.Flags().IntVarP(&repeat, "repeat", "r", 0, "Repetitions, 0-15")
	return cmd
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Soft reset the sign (memory is kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(s *session) error {
				return s.send(alphasign.SoftReset())
			})
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Erase every file on the sign",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(s *session) error {
				return s.send(alphasign.ClearMemory())
			})
		},
	}
}

func newSequenceCmd() *cobra.Command {
	var locked bool
	cmd := &cobra.Command{
		Use:   "sequence LABEL...",
		Short: "Set the display order of TEXT files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]alphasign.DeviceFile, 0, len(args))
			for _, label := range args {
				t, err := alphasign.NewText(label, "")
				if err != nil {
					return err
				}
				files = append(files, t)
			}
			seq, err := alphasign.BuildRunSequence(files, locked)
			if err != nil {
				return err
			}
			return run(func(s *session) error {
				return s.send(seq)
			})
		},
	}
	cmd.Flags().BoolVar(&locked, "locked", false, "Prevent changes from the IR keyboard")
	return cmd
}

func newTextCmd() *cobra.Command {
	var (
		label string
		size  int
	)
	cmd := &cobra.Command{
		Use:   "text MESSAGE",
		Short: "Allocate and write a TEXT file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := alphasign.NewText(label, args[0], alphasign.WithTextSize(size))
			if err != nil {
				return err
			}
			alloc, err := alphasign.BuildAllocation([]alphasign.DeviceFile{msg})
			if err != nil {
				return err
			}
			return run(func(s *session) error {
				return s.send(append(alloc, msg.Serialize())...)
			})
		},
	}
	cmd.Flags().StringVarP(&label, "label", "l", "A", "File label")
	cmd.Flags().IntVarP(&size, "size", "s", 64, "Bytes to reserve")
	return cmd
}

func newPictureCmd() *cobra.Command {
	var (
		kind  string
		label string
		color string
	)
	cmd := &cobra.Command{
		Use:   "picture ROWS_FILE",
		Short: "Allocate and write a DOTS PICTURE from a file with one pixel row per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readRows(args[0])
			if err != nil {
				return err
			}
			pic, err := buildPicture(kind, label, color, rows)
			if err != nil {
				return err
			}
			alloc, err := alphasign.BuildAllocation([]alphasign.DeviceFile{pic})
			if err != nil {
				return err
			}
			return run(func(s *session) error {
				s.logger.Info("writing picture", "kind", pic.Kind(), "label", pic.Label(),
					"height", pic.Height(), "width", pic.Width())
				return s.send(append(alloc, pic.Serialize())...)
			})
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "small", "Picture kind: small, large or rgb")
	cmd.Flags().StringVarP(&label, "label", "l", "1", "File label (1 char for small, 9 for large/rgb)")
	cmd.Flags().StringVar(&color, "color", "mono", "Color status: mono, tri or octo (ignored for rgb)")
	return cmd
}

func readRows(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rows file: %w", err)
	}
	defer f.Close()

	var rows []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		row := strings.TrimRight(scanner.Text(), "\r")
		if row == "" {
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rows file: %w", err)
	}
	return rows, nil
}

// buildPicture sizes the picture from its rows: one row per line, one
// character per pixel (6 for rgb).
func buildPicture(kind, label, color string, rows []string) (*alphasign.DotsPicture, error) {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	height := len(rows)

	switch kind {
	case "rgb":
		return alphasign.NewRGBDots(label, height, width/6, rows)
	case "small", "large":
		status, err := parseColor(color)
		if err != nil {
			return nil, err
		}
		if kind == "small" {
			return alphasign.NewSmallDots(label, height, width, rows, status)
		}
		return alphasign.NewLargeDots(label, height, width, rows, status)
	default:
		return nil, fmt.Errorf("unknown picture kind %q", kind)
	}
}

func parseColor(name string) (alphasign.ColorStatus, error) {
	switch strings.ToLower(name) {
	case "mono", "monochrome":
		return alphasign.ColorMonochrome, nil
	case "tri", "3":
		return alphasign.ColorTricolor, nil
	case "octo", "8":
		return alphasign.ColorOctocolor, nil
	default:
		return "", fmt.Errorf("unknown color %q", name)
	}
}
