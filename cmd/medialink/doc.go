// Command medialink hard-links finished downloads into a Jellyfin-style
// movies/TV library and cleans up staging files whose library link is gone.
//
// Running medialink with no subcommand organizes the staging directory, or
// the single path given as an argument. Subcommands cover orphan cleanup,
// dry classification of names, link history, status, and configuration.
package main
