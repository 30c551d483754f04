// Package usblink is the USB Link for alphasign. It lives in its own package
// because gousb needs cgo and libusb, which callers that only encode
// commands should not have to build.
package usblink

import (
	"errors"
	"fmt"

	"github.com/google/gousb"
	"github.com/hashicorp/go-hclog"

	"github.com/alparslanahmed/alphasign"
)

// Config identifies a sign attached over USB.
type Config struct {
	VendorID  uint16
	ProductID uint16

	// NoReset skips the USB reset sent before claiming the device. Some
	// virtual machines do not cope with it.
	NoReset bool

	// Logger receives setup warnings. Nil discards them.
	Logger hclog.Logger
}

// link is a packet link on the first OUT endpoint of the default interface.
type link struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	done func()
	out  *gousb.OutEndpoint
}

// Dial returns a Dialer for a USB sign.
func Dial(cfg Config) alphasign.Dialer {
	return func() (alphasign.Link, error) {
		return open(cfg)
	}
}

// preparer is the part of *gousb.Device touched before the interface is
// claimed.
type preparer interface {
	Reset() error
	SetAutoDetach(bool) error
}

// prepare resets the device and enables kernel driver auto detach. Neither
// step is fatal: libusb reports LIBUSB_ERROR_NOT_SUPPORTED for auto detach
// on platforms without kernel drivers, and the claim may still succeed.
func prepare(dev preparer, reset bool, logger hclog.Logger) {
	if reset {
		if err := dev.Reset(); err != nil {
			logger.Warn("usb reset failed, continuing", "error", err)
		}
	}
	if err := dev.SetAutoDetach(true); err != nil {
		logger.Warn("usb kernel driver auto detach failed, continuing", "error", err)
	}
}

func open(cfg Config) (_ alphasign.Link, err error) {
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	ctx := gousb.NewContext()
	l := &link{ctx: ctx}
	defer func() {
		if err != nil {
			l.Close()
		}
	}()

	l.dev, err = ctx.OpenDeviceWithVIDPID(gousb.ID(cfg.VendorID), gousb.ID(cfg.ProductID))
	if err != nil {
		return nil, fmt.Errorf("open usb %04x:%04x: %w", cfg.VendorID, cfg.ProductID, err)
	}
	if l.dev == nil {
		return nil, fmt.Errorf("usb device %04x:%04x not found", cfg.VendorID, cfg.ProductID)
	}
	prepare(l.dev, !cfg.NoReset, logger)

	intf, done, err := l.dev.DefaultInterface()
	if err != nil {
		return nil, fmt.Errorf("claim usb interface: %w", err)
	}
	l.done = done

	number, err := firstOutEndpoint(intf.Setting.Endpoints)
	if err != nil {
		return nil, err
	}
	l.out, err = intf.OutEndpoint(number)
	if err != nil {
		return nil, fmt.Errorf("open write endpoint %d: %w", number, err)
	}
	logger.Debug("usb link open", "device", fmt.Sprintf("%04x:%04x", cfg.VendorID, cfg.ProductID),
		"endpoint", number, "max_packet_size", l.out.Desc.MaxPacketSize)
	return l, nil
}

// firstOutEndpoint returns the lowest numbered OUT endpoint.
func firstOutEndpoint(endpoints map[gousb.EndpointAddress]gousb.EndpointDesc) (int, error) {
	number := -1
	for _, ep := range endpoints {
		if ep.Direction == gousb.EndpointDirectionOut && (number < 0 || ep.Number < number) {
			number = ep.Number
		}
	}
	if number < 0 {
		return 0, errors.New("usb device has no write endpoint")
	}
	return number, nil
}

func (l *link) Write(p []byte) (int, error) {
	return l.out.Write(p)
}

func (l *link) Close() error {
	if l.done != nil {
		l.done()
		l.done = nil
	}
	var err error
	if l.dev != nil {
		err = l.dev.Close()
		l.dev = nil
	}
	if l.ctx != nil {
		if cerr := l.ctx.Close(); err == nil {
			err = cerr
		}
		l.ctx = nil
	}
	return err
}

func (l *link) MaxPacketSize() int {
	if l.out == nil {
		return 0
	}
	return l.out.Desc.MaxPacketSize
}
