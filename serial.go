package alphasign

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// SerialConfig describes a serial line to a sign.
type SerialConfig struct {
	// Device is the character device, e.g. /dev/ttyS0 or COM1.
	Device string

	// Baud defaults to DefaultBaudRate.
	Baud int

	// ReadTimeout defaults to DefaultTimeout.
	ReadTimeout time.Duration
}

// serialLink is a byte stream link over tarm/serial.
type serialLink struct {
	port *serial.Port
}

// DialSerial returns a Dialer for a serial line. The line is set to 7 data
// bits, even parity and 2 stop bits, which every Alpha sign accepts.
//
//	tr := alphasign.NewTransport(alphasign.DialSerial(alphasign.SerialConfig{
//	    Device: "/dev/ttyUSB0",
//	}))
func DialSerial(cfg SerialConfig) Dialer {
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaudRate
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultTimeout
	}
	return func() (Link, error) {
		port, err := serial.OpenPort(&serial.Config{
			Name:        cfg.Device,
			Baud:        cfg.Baud,
			ReadTimeout: cfg.ReadTimeout,
			Size:        7,
			Parity:      serial.ParityEven,
			StopBits:    serial.Stop2,
		})
		if err != nil {
			return nil, fmt.Errorf("open serial %s: %w", cfg.Device, err)
		}
		return &serialLink{port: port}, nil
	}
}

func (l *serialLink) Write(p []byte) (int, error) {
	return l.port.Write(p)
}

func (l *serialLink) Close() error {
	return l.port.Close()
}

func (l *serialLink) MaxPacketSize() int { return 0 }
