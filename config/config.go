// Package config builds and validates the immutable server configuration
// from command-line flags. Nothing mutates a Config after startup.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Config is the server configuration. It is constructed once at startup
// and passed by reference into every request-handling component.
type Config struct {
	Host       string `validate:"required"`
	Port       int    `validate:"gte=1,lte=65535"`
	Root       string `validate:"required"`
	Restricted []string
	Plain      bool
	LogLevel   string `validate:"oneof=debug info warn error"`
}

// FromArgs parses command-line arguments into a validated Config.
func FromArgs(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("servedir", pflag.ContinueOnError)

	host := fs.String("host", "127.0.0.1", "bind address")
	port := fs.Int("port", 3000, "bind port")
	base := fs.String("base", ".", "root directory to serve")
	restricted := fs.String("restricted-files", "", "comma-separated name patterns to hide and forbid")
	plain := fs.Bool("plain", false, "render plain, unstyled directory listings")
	logLevel := fs.String("log-level", "info", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		Host:       *host,
		Port:       *port,
		Root:       *base,
		Restricted: splitPatterns(*restricted),
		Plain:      *plain,
		LogLevel:   strings.ToLower(*logLevel),
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr returns the host:port string to bind.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// splitPatterns turns a comma-separated flag value into trimmed,
// non-empty patterns.
func splitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
