// Package mediainfo infers media metadata from release-style filenames.
//
// Classification is purely lexical: a season/episode token marks an episode,
// otherwise a release year marks a movie, otherwise the whole stem becomes an
// undated movie title tagged MatchNone. Titles are cleaned of separator runs
// and title-cased with a configurable minor-word set.
package mediainfo
