// Package config loads, normalizes, and validates recast configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads an optional TOML file. The tool works with no
// config file present: defaults cover every field, and a file only
// overrides them.
//
// Always obtain settings through this package so downstream code
// receives sanitized paths and clear validation errors.
package config
