// Package config loads, normalizes, and validates medialink configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// JELLYFIN_API_KEY and NTFY_TOPIC. The Config type enumerates the staging
// root, both library roots, the recognized video extensions, and the
// title-case minor words so the organizer and reconciler never read globals.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical extension sets, and clear validation errors.
package config
