// Package library resolves classified media onto the movies and TV library
// layout. Resolution is pure: the same metadata, source name, and roots always
// produce the same destination.
package library
