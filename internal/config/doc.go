// Package config loads, normalizes, and validates PocketAria configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a .env file from the working directory,
// and honours environment fallbacks such as POCKETARIA_S3_ACCESS_KEY. The
// Config type centralizes every knob the store, the permalink layer and the
// CLI need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
