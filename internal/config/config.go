package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Link kinds.
const (
	LinkSerial = "serial"
	LinkUSB    = "usb"
	LinkDebug  = "debug"
)

type Config struct {
	LogLevel  string          `toml:"log_level"`
	Link      LinkConfig      `toml:"link"`
	Transport TransportConfig `toml:"transport"`
	Packet    PacketConfig    `toml:"packet"`
}

type LinkConfig struct {
	Kind        string `toml:"kind"`
	Device      string `toml:"device"`
	Baud        int    `toml:"baud"`
	ReadTimeout string `toml:"read_timeout"`
	VendorID    uint16 `toml:"vendor_id"`
	ProductID   uint16 `toml:"product_id"`
	Reset       *bool  `toml:"reset"`
}

type TransportConfig struct {
	SmallDotsDelay string `toml:"small_dots_delay"`
	ChunkDelay     string `toml:"chunk_delay"`
}

type PacketConfig struct {
	TypeCode string `toml:"type_code"`
	Address  string `toml:"address"`
	Checksum bool   `toml:"checksum"`
}

// Default returns the configuration used when no file is given: a debug
// link that only logs.
func Default() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

// Load reads a TOML file, fills in defaults and validates the result.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// Parse is Load for in-memory TOML.
func Parse(data string) (Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Link.Kind == "" {
		cfg.Link.Kind = LinkDebug
	}
	if cfg.Link.Kind == LinkSerial && cfg.Link.Device == "" {
		cfg.Link.Device = "/dev/ttyS0"
	}
	if cfg.Link.Baud == 0 {
		cfg.Link.Baud = 4800
	}
	if cfg.Link.ReadTimeout == "" {
		cfg.Link.ReadTimeout = "1s"
	}
	if cfg.Transport.SmallDotsDelay == "" {
		cfg.Transport.SmallDotsDelay = "100ms"
	}
	if cfg.Transport.ChunkDelay == "" {
		cfg.Transport.ChunkDelay = "50ms"
	}
	if cfg.Packet.TypeCode == "" {
		cfg.Packet.TypeCode = "Z"
	}
	if cfg.Packet.Address == "" {
		cfg.Packet.Address = "00"
	}
}

func Validate(cfg Config) error {
	switch strings.TrimSpace(cfg.Link.Kind) {
	case LinkSerial:
		if strings.TrimSpace(cfg.Link.Device) == "" {
			return fmt.Errorf("link.device is required for serial links")
		}
	case LinkUSB:
		if cfg.Link.VendorID == 0 || cfg.Link.ProductID == 0 {
			return fmt.Errorf("link.vendor_id and link.product_id are required for usb links")
		}
	case LinkDebug:
	default:
		return fmt.Errorf("unknown link.kind %q", cfg.Link.Kind)
	}
	if cfg.Link.Baud < 0 {
		return fmt.Errorf("link.baud must be positive")
	}
	durations := []struct{ name, value string }{
		{"link.read_timeout", cfg.Link.ReadTimeout},
		{"transport.small_dots_delay", cfg.Transport.SmallDotsDelay},
		{"transport.chunk_delay", cfg.Transport.ChunkDelay},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		if v < 0 {
			return fmt.Errorf("%s must not be negative", d.name)
		}
	}
	if len(cfg.Packet.TypeCode) != 1 {
		return fmt.Errorf("packet.type_code must be 1 character")
	}
	if len(cfg.Packet.Address) != 2 {
		return fmt.Errorf("packet.address must be 2 characters")
	}
	return nil
}

// ReadTimeout returns link.read_timeout. Call after Validate.
func (c Config) ReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Link.ReadTimeout)
	return d
}

// SmallDotsDelay returns transport.small_dots_delay. Call after Validate.
func (c Config) SmallDotsDelay() time.Duration {
	d, _ := time.ParseDuration(c.Transport.SmallDotsDelay)
	return d
}

// USBReset returns link.reset, which defaults to true.
func (c Config) USBReset() bool {
	return c.Link.Reset == nil || *c.Link.Reset
}

// ChunkDelay returns transport.chunk_delay. Call after Validate.
func (c Config) ChunkDelay() time.Duration {
	d, _ := time.ParseDuration(c.Transport.ChunkDelay)
	return d
}
