// Package config loads, normalizes, and validates Fablecast configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks for the
// analysis and synthesis API keys. The Config type centralizes every knob the
// daemon and CLI need, so storage directories and provider credentials are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
