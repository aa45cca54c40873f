// Package organizer hard-links media from the staging tree into the movies and
// TV libraries.
//
// Files are discovered in sorted order, classified from their names, resolved
// to a library destination, and linked one at a time. An existing destination
// is replaced, so running twice over the same staging files leaves exactly one
// link per destination. A per-file failure is logged and counted without
// stopping the batch. Only a missing root aborts a run.
package organizer
