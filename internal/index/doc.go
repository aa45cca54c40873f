// Package index keeps a SQLite record of the hard links medialink has
// created. The history command reads it and cleanup prunes it. Orphan
// detection relies on filesystem link counts alone, so a stale or missing
// index never changes what gets deleted.
package index
