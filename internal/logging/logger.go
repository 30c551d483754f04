package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	EnvLogLevel = "ALPHASIGN_LOG_LEVEL"
	EnvLogJSON  = "ALPHASIGN_JSON_LOG"
)

// NewLogger creates an hclog logger with the standard settings.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: os.Getenv(EnvLogJSON) == "1",
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// ResolveLevel picks the first non-empty level of flag, the environment and
// the config file, falling back to "warn".
func ResolveLevel(flag, config string) string {
	for _, lvl := range []string{flag, os.Getenv(EnvLogLevel), config} {
		if lvl = strings.TrimSpace(lvl); lvl != "" {
			return lvl
		}
	}
	return "warn"
}
