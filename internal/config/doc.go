// Package config loads, normalizes, and validates timemachine configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// NOTION_KEY, including values kept in a .env file in the working directory.
// The Config type centralizes every knob the CLI needs: the source GEDCOM
// file, Notion credentials and target database, retry pacing, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
