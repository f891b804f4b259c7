// Package config loads, normalizes, and validates encore configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the ENCORE_NTFY_TOKEN environment
// fallback. Always obtain settings through this package so downstream code
// receives sanitized paths and clear validation errors.
package config
