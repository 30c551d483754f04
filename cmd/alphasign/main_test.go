package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alparslanahmed/alphasign"
)

func TestBuildPictureSizesFromRows(t *testing.T) {
	tests := []struct {
		name       string
		kind       string
		label      string
		rows       []string
		wantKind   alphasign.FileKind
		wantHeight int
		wantWidth  int
	}{
		{"small", "small", "1", []string{"101", "01"}, alphasign.KindSmallDots, 2, 3},
		{"large", "large", "PICTURE01", []string{"1111"}, alphasign.KindLargeDots, 1, 4},
		{"rgb", "rgb", "RGBIMAGE1", []string{"FF000000FF00"}, alphasign.KindRGBDots, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pic, err := buildPicture(tt.kind, tt.label, "mono", tt.rows)
			if err != nil {
				t.Fatalf("build picture: %v", err)
			}
			if pic.Kind() != tt.wantKind || pic.Height() != tt.wantHeight || pic.Width() != tt.wantWidth {
				t.Fatalf("got %s %dx%d", pic.Kind(), pic.Height(), pic.Width())
			}
		})
	}

	if _, err := buildPicture("huge", "1", "mono", nil); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if _, err := buildPicture("small", "1", "purple", nil); err == nil {
		t.Fatalf("expected error for unknown color")
	}
}

func TestReadRowsSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.txt")
	if err := os.WriteFile(path, []byte("101\r\n\n010\n"), 0o644); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	rows, err := readRows(path)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 2 || rows[0] != "101" || rows[1] != "010" {
		t.Fatalf("rows = %q", rows)
	}
}

func TestResetThroughDebugLink(t *testing.T) {
	configPath = ""
	logLevel = "error"
	root := newRootCmd()
	root.SetArgs([]string{"reset"})
	if err := root.Execute(); err != nil {
		t.Fatalf("reset: %v", err)
	}
}
