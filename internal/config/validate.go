package config

import (
	"fmt"
	"net"
	"net/url"
)

// Validate checks a parsed config for consistency. The detail level is not
// validated here: out-of-range levels clamp at the display layer.
func Validate(c *Config) error {
	if c.Target != "" {
		u, err := url.Parse(c.Target)
		if err != nil {
			return fmt.Errorf("invalid target %q: %w", c.Target, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("target %q: scheme must be http or https", c.Target)
		}
		if u.Host == "" {
			return fmt.Errorf("target %q: missing host", c.Target)
		}
	}

	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.Listen, err)
	}

	if c.History.Capacity < 1 {
		return fmt.Errorf("history capacity must be at least 1, got %d", c.History.Capacity)
	}

	if c.API.Enabled {
		if c.API.Port < 1 || c.API.Port > 65535 {
			return fmt.Errorf("invalid api port %d", c.API.Port)
		}
	}

	if _, err := ParseSize(c.Capture.MaxBodySize); err != nil {
		return fmt.Errorf("invalid capture max_body_size: %w", err)
	}

	return nil
}
