// Package textutil provides small text helpers shared by the path resolver and
// the CLI: stripping filesystem-unsafe characters from name components and a
// generic ternary.
package textutil
