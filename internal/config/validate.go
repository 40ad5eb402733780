package config

import (
	"errors"
	"fmt"
	"net"
)

var validPresets = map[string]struct{}{
	"ultrafast": {},
	"superfast": {},
	"veryfast":  {},
	"faster":    {},
	"fast":      {},
	"medium":    {},
	"slow":      {},
	"slower":    {},
	"veryslow":  {},
}

var validLogFormats = map[string]struct{}{
	"console": {},
	"json":    {},
}

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	if err := c.validateEncode(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Paths.WorkDir == c.Paths.LogDir {
		return errors.New("paths.work_dir and paths.log_dir must differ")
	}
	if _, _, err := net.SplitHostPort(c.Paths.Bind); err != nil {
		return fmt.Errorf("paths.bind %q is not host:port: %w", c.Paths.Bind, err)
	}
	return nil
}

func (c *Config) validateLimits() error {
	if c.Limits.RequestTimeout <= 0 {
		return errors.New("limits.request_timeout must be positive (seconds)")
	}
	if c.Limits.MaxUploadMiB <= 0 {
		return errors.New("limits.max_upload_mib must be positive")
	}
	return nil
}

func (c *Config) validateEncode() error {
	// CRF range shared by libx264/libx265; libvpx accepts the same span.
	if c.Encode.Quality < 1 || c.Encode.Quality > 51 {
		return errors.New("encode.quality must be between 1 and 51")
	}
	if _, ok := validPresets[c.Encode.Preset]; !ok {
		return fmt.Errorf("encode.preset %q is not a recognized ffmpeg preset", c.Encode.Preset)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, ok := validLogFormats[c.Logging.Format]; !ok {
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if _, ok := validLogLevels[c.Logging.Level]; !ok {
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
