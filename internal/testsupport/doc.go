// Package testsupport provides fixtures shared by package tests: temp-rooted
// configs and hard-link file helpers.
package testsupport
