// Package fileutil holds filesystem helpers shared by the organizer, the
// staging reconciler, and preflight: extension filtering, sorted recursive
// discovery, and inode identity (device, inode, link count).
package fileutil
