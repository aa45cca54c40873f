// Package runlock serializes organize and cleanup runs with a non-blocking
// file lock so two invocations never race on the same destinations.
package runlock
