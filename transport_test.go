package alphasign

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

// fakeLink records writes. maxWrite caps the bytes accepted per call to
// simulate short writes; failAt fails the n-th write (1 based); stall
// accepts nothing without reporting an error.
type fakeLink struct {
	packetSize int
	maxWrite   int
	failAt     int
	stall      bool
	writes     [][]byte
	closed     int
}

func (l *fakeLink) Write(p []byte) (int, error) {
	l.writes = append(l.writes, append([]byte(nil), p...))
	if l.failAt > 0 && len(l.writes) == l.failAt {
		return 0, errors.New("i/o error")
	}
	if l.stall {
		return 0, nil
	}
	n := len(p)
	if l.maxWrite > 0 && n > l.maxWrite {
		n = l.maxWrite
	}
	return n, nil
}

func (l *fakeLink) Close() error {
	l.closed++
	return nil
}

func (l *fakeLink) MaxPacketSize() int { return l.packetSize }

func (l *fakeLink) dataWrites() [][]byte {
	var out [][]byte
	for _, w := range l.writes {
		if len(w) > 0 {
			out = append(out, w)
		}
	}
	return out
}

type sleepRecorder struct {
	sleeps []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.sleeps = append(s.sleeps, d)
}

func newTestTransport(link *fakeLink, rec *sleepRecorder) (*Transport, *int) {
	dials := 0
	dial := func() (Link, error) {
		dials++
		return link, nil
	}
	return NewTransport(dial, WithSleep(rec.sleep)), &dials
}

// frameWithTag builds a frame of size bytes whose command code is tag.
func frameWithTag(tag byte, size int) Frame {
	f := make(Frame, size)
	for i := range f {
		f[i] = '0'
	}
	f[CommandTagOffset] = tag
	return f
}

func TestSendSmallDotsSplitsInTwo(t *testing.T) {
	link := &fakeLink{}
	rec := &sleepRecorder{}
	tr, _ := newTestTransport(link, rec)

	f := frameWithTag(CmdWriteSmallDots, 40)
	res, err := tr.Send(f)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(link.writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(link.writes))
	}
	if len(link.writes[0]) != 16 || len(link.writes[1]) != 24 {
		t.Fatalf("write sizes = %d, %d; want 16, 24", len(link.writes[0]), len(link.writes[1]))
	}
	if !bytes.Equal(append(link.writes[0], link.writes[1]...), f) {
		t.Fatalf("writes do not reassemble the frame")
	}
	if len(rec.sleeps) != 1 || rec.sleeps[0] != DefaultSmallDotsDelay {
		t.Fatalf("sleeps = %v, want one %v", rec.sleeps, DefaultSmallDotsDelay)
	}
	if res.State != Complete || res.Sent != 40 || res.Total != 40 || res.TransferID == "" {
		t.Fatalf("result = %+v", res)
	}
}

func TestSendLargeDotsChunksByPacketSize(t *testing.T) {
	for _, tag := range []byte{CmdWriteLargeDots, CmdWriteRGBDots} {
		t.Run(string(rune(tag)), func(t *testing.T) {
			link := &fakeLink{packetSize: 64}
			rec := &sleepRecorder{}
			tr, _ := newTestTransport(link, rec)

			res, err := tr.Send(frameWithTag(tag, 1000))
			if err != nil {
				t.Fatalf("send: %v", err)
			}
			data := link.dataWrites()
			if len(data) != 16 { // ceil(1000/64)
				t.Fatalf("expected 16 chunks, got %d", len(data))
			}
			total := 0
			for i, w := range data {
				if len(w) > 64 {
					t.Fatalf("chunk %d is %d bytes", i, len(w))
				}
				total += len(w)
			}
			if total != 1000 {
				t.Fatalf("chunks sum to %d", total)
			}
			if len(rec.sleeps) != 15 {
				t.Fatalf("expected 15 delays, got %d", len(rec.sleeps))
			}
			last := link.writes[len(link.writes)-1]
			if len(last) != 0 {
				t.Fatalf("transfer not ended with a zero length write")
			}
			if res.Writes != 17 || res.State != Complete {
				t.Fatalf("result = %+v", res)
			}
		})
	}
}

func TestSendShortWritesAreRetriedNotFailed(t *testing.T) {
	link := &fakeLink{packetSize: 64, maxWrite: 10}
	rec := &sleepRecorder{}
	tr, _ := newTestTransport(link, rec)

	res, err := tr.Send(frameWithTag(CmdWriteLargeDots, 100))
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res.Sent != 100 || res.State != Complete {
		t.Fatalf("result = %+v", res)
	}
	// Every chunk is capped at 10 accepted bytes.
	if n := len(link.dataWrites()); n != 10 {
		t.Fatalf("expected 10 data writes, got %d", n)
	}
}

func TestSendOtherCommandsInOneWrite(t *testing.T) {
	link := &fakeLink{}
	rec := &sleepRecorder{}
	tr, _ := newTestTransport(link, rec)

	framer, err := NewPacketFramer()
	if err != nil {
		t.Fatalf("new framer: %v", err)
	}
	f := framer.Frame(Beep(10, time.Second, 1))
	if !tr.Write(f) {
		t.Fatalf("write failed")
	}
	if len(link.writes) != 1 || !bytes.Equal(link.writes[0], f) {
		t.Fatalf("writes = %q", link.writes)
	}
	if len(rec.sleeps) != 0 {
		t.Fatalf("unexpected sleeps %v", rec.sleeps)
	}
}

func TestWriteReportsIOErrorWithoutPanicking(t *testing.T) {
	link := &fakeLink{failAt: 1}
	tr, _ := newTestTransport(link, &sleepRecorder{})

	if tr.Write(frameWithTag(CmdWriteText, 20)) {
		t.Fatalf("expected write to fail")
	}
}

func TestSendResultStates(t *testing.T) {
	t.Run("not started", func(t *testing.T) {
		link := &fakeLink{failAt: 1}
		tr, _ := newTestTransport(link, &sleepRecorder{})
		res, err := tr.Send(frameWithTag(CmdWriteSmallDots, 40))
		if !errors.Is(err, ErrTransport) {
			t.Fatalf("expected ErrTransport, got %v", err)
		}
		var terr *TransportError
		if !errors.As(err, &terr) || terr.Op != "write" {
			t.Fatalf("expected write TransportError, got %v", err)
		}
		if res.State != NotStarted || res.Sent != 0 {
			t.Fatalf("result = %+v", res)
		}
	})

	t.Run("partial", func(t *testing.T) {
		link := &fakeLink{failAt: 2}
		tr, _ := newTestTransport(link, &sleepRecorder{})
		res, err := tr.Send(frameWithTag(CmdWriteSmallDots, 40))
		if err == nil {
			t.Fatalf("expected error")
		}
		if res.State != Partial || res.Sent != 16 {
			t.Fatalf("result = %+v", res)
		}
	})

	t.Run("dial failure", func(t *testing.T) {
		tr := NewTransport(func() (Link, error) { return nil, errors.New("no such device") })
		res, err := tr.Send(frameWithTag(CmdWriteText, 20))
		var terr *TransportError
		if !errors.As(err, &terr) || terr.Op != "connect" {
			t.Fatalf("expected connect TransportError, got %v", err)
		}
		if res.State != NotStarted {
			t.Fatalf("result = %+v", res)
		}
	})
}

func TestConnectIsIdempotentAndDisconnectIsSafe(t *testing.T) {
	link := &fakeLink{}
	tr, dials := newTestTransport(link, &sleepRecorder{})

	if err := tr.Disconnect(); err != nil {
		t.Fatalf("disconnect before connect: %v", err)
	}
	if err := tr.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := tr.Connect(); err != nil {
		t.Fatalf("second connect: %v", err)
	}
	if *dials != 1 {
		t.Fatalf("dialed %d times, want 1", *dials)
	}
	if !tr.IsConnected() {
		t.Fatalf("expected connected")
	}
	if err := tr.Disconnect(); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if err := tr.Disconnect(); err != nil {
		t.Fatalf("second disconnect: %v", err)
	}
	if link.closed != 1 || tr.IsConnected() {
		t.Fatalf("closed %d times, connected=%v", link.closed, tr.IsConnected())
	}
}

func TestSendAutoConnects(t *testing.T) {
	link := &fakeLink{}
	tr, dials := newTestTransport(link, &sleepRecorder{})
	if !tr.Write(frameWithTag(CmdWriteText, 12)) {
		t.Fatalf("write failed")
	}
	if !tr.Write(frameWithTag(CmdWriteText, 12)) {
		t.Fatalf("second write failed")
	}
	if *dials != 1 {
		t.Fatalf("dialed %d times, want 1", *dials)
	}
}

func TestDebugLinkRecordsFrames(t *testing.T) {
	link := NewDebugLink(nil)
	tr := NewTransport(DialDebug(link), WithSleep(func(time.Duration) {}))
	framer, err := NewPacketFramer()
	if err != nil {
		t.Fatalf("new framer: %v", err)
	}
	pic, err := NewSmallDots("1", 2, 2, []string{"10", "01"}, ColorMonochrome)
	if err != nil {
		t.Fatalf("new small dots: %v", err)
	}
	f := framer.Frame(pic.Serialize())
	if !tr.Write(f) {
		t.Fatalf("write failed")
	}
	written := link.Written()
	if len(written) != 2 || !bytes.Equal(append(written[0], written[1]...), f) {
		t.Fatalf("debug link saw %q", written)
	}
}

func TestSendStalledLinkIsShortWrite(t *testing.T) {
	link := &fakeLink{packetSize: 64, stall: true}
	tr, _ := newTestTransport(link, &sleepRecorder{})

	res, err := tr.Send(frameWithTag(CmdWriteLargeDots, 100))
	if !errors.Is(err, ErrShortWrite) || !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrShortWrite, got %v", err)
	}
	if res.State != NotStarted || res.Sent != 0 || res.Writes != 1 {
		t.Fatalf("result = %+v", res)
	}
}

func TestSendEndOfTransferWrite(t *testing.T) {
	tests := []struct {
		name       string
		tag        byte
		size       int
		packetSize int
		wantSizes  []int
	}{
		{"small dots on packet link", CmdWriteSmallDots, 40, 64, []int{16, 24, 0}},
		{"small dots on stream link", CmdWriteSmallDots, 40, 0, []int{16, 24}},
		{"text on packet link", CmdWriteText, 30, 64, []int{30, 0}},
		{"special on stream link", CmdWriteSpecial, 30, 0, []int{30}},
		{"large dots on stream link", CmdWriteLargeDots, 1000, 0, []int{1000}},
		{"rgb dots on packet link", CmdWriteRGBDots, 100, 64, []int{64, 36, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := &fakeLink{packetSize: tt.packetSize}
			tr, _ := newTestTransport(link, &sleepRecorder{})

			res, err := tr.Send(frameWithTag(tt.tag, tt.size))
			if err != nil {
				t.Fatalf("send: %v", err)
			}
			if len(link.writes) != len(tt.wantSizes) {
				t.Fatalf("got %d writes, want %v", len(link.writes), tt.wantSizes)
			}
			for i, want := range tt.wantSizes {
				if len(link.writes[i]) != want {
					t.Fatalf("write %d is %d bytes, want %d", i, len(link.writes[i]), want)
				}
			}
			if res.State != Complete || res.Sent != tt.size || res.Writes != len(tt.wantSizes) {
				t.Fatalf("result = %+v", res)
			}
		})
	}
}

func TestSendUsesConfiguredDelays(t *testing.T) {
	rec := &sleepRecorder{}
	link := &fakeLink{packetSize: 64}
	tr := NewTransport(func() (Link, error) { return link, nil },
		WithSleep(rec.sleep),
		WithSmallDotsDelay(250*time.Millisecond),
		WithChunkDelay(7*time.Millisecond),
	)

	if _, err := tr.Send(frameWithTag(CmdWriteSmallDots, 40)); err != nil {
		t.Fatalf("send small dots: %v", err)
	}
	if len(rec.sleeps) != 1 || rec.sleeps[0] != 250*time.Millisecond {
		t.Fatalf("small dots sleeps = %v", rec.sleeps)
	}

	rec.sleeps = nil
	if _, err := tr.Send(frameWithTag(CmdWriteLargeDots, 200)); err != nil {
		t.Fatalf("send large dots: %v", err)
	}
	want := []time.Duration{7 * time.Millisecond, 7 * time.Millisecond, 7 * time.Millisecond}
	if len(rec.sleeps) != len(want) {
		t.Fatalf("chunk sleeps = %v, want %v", rec.sleeps, want)
	}
	for i := range want {
		if rec.sleeps[i] != want[i] {
			t.Fatalf("chunk sleeps = %v, want %v", rec.sleeps, want)
		}
	}
}
