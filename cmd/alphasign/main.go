package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/alparslanahmed/alphasign"
	"github.com/alparslanahmed/alphasign/internal/config"
	"github.com/alparslanahmed/alphasign/internal/logging"
	"github.com/alparslanahmed/alphasign/usblink"
)

const version = "0.1.0"

var (
	configPath string
	logLevel   string
)

// session is everything a subcommand needs to talk to the sign.
type session struct {
	logger    hclog.Logger
	framer    *alphasign.PacketFramer
	transport *alphasign.Transport
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "alphasign",
		Short:         "Program Alpha protocol LED signs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to sign.toml (default: debug link)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newBeepCmd(),
		newResetCmd(),
		newClearCmd(),
		newSequenceCmd(),
		newTextCmd(),
		newPictureCmd(),
	)
	return root
}

func openSession() (*session, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	logger := logging.NewLogger("alphasign", logging.ResolveLevel(logLevel, cfg.LogLevel), os.Stderr)

	framer, err := alphasign.NewPacketFramer(
		alphasign.WithTypeCode(cfg.Packet.TypeCode[0]),
		alphasign.WithAddress(cfg.Packet.Address),
		alphasign.WithChecksum(cfg.Packet.Checksum),
	)
	if err != nil {
		return nil, err
	}

	var dial alphasign.Dialer
	switch cfg.Link.Kind {
	case config.LinkSerial:
		dial = alphasign.DialSerial(alphasign.SerialConfig{
			Device:      cfg.Link.Device,
			Baud:        cfg.Link.Baud,
			ReadTimeout: cfg.ReadTimeout(),
		})
	case config.LinkUSB:
		dial = usblink.Dial(usblink.Config{
			VendorID:  cfg.Link.VendorID,
			ProductID: cfg.Link.ProductID,
			NoReset:   !cfg.USBReset(),
			Logger:    logger.Named("usb"),
		})
	default:
		dial = alphasign.DialDebug(alphasign.NewDebugLink(logger.Named("debug")))
	}
	logger.Debug("session configured", "link", cfg.Link.Kind)

	return &session{
		logger: logger,
		framer: framer,
		transport: alphasign.NewTransport(dial,
			alphasign.WithLogger(logger.Named("transport")),
			alphasign.WithSmallDotsDelay(cfg.SmallDotsDelay()),
			alphasign.WithChunkDelay(cfg.ChunkDelay()),
		),
	}, nil
}

// send frames and writes every command in order, stopping at the first
// failure.
func (s *session) send(cmds ...alphasign.Command) error {
	for _, cmd := range cmds {
		res, err := s.transport.Send(s.framer.Frame(cmd))
		if err != nil {
			return fmt.Errorf("command %q (%s, %d/%d bytes): %w", cmd.Tag(), res.State, res.Sent, res.Total, err)
		}
	}
	return nil
}

func (s *session) close() {
	if err := s.transport.Disconnect(); err != nil {
		s.logger.Warn("disconnect failed", "error", err)
	}
}

// run opens a session, hands it to fn and closes it.
func run(fn func(s *session) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()
	return fn(s)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
