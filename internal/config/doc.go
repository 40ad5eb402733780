// Package config loads, normalizes, and validates vidmux configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// VIDMUX_API_TOKEN. The Config type centralizes every knob the daemon and
// CLI need: work/log directories, external tool names, request limits, and
// default encode parameters.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
