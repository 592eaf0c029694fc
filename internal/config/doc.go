// Package config loads, normalizes, and validates customid configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STASH_API_KEY. The Config type centralizes every knob the CLI needs: where
// the Stash server lives, which instance pre-fills the dialog, how endpoints
// are matched, and where the submission journal is kept.
//
// Always obtain settings through this package so downstream code receives
// sanitized URLs, canonical log formats, and clear validation errors.
package config
