// Package raven reconstructs the architectural structure of a codebase from
// extracted type facts.
package raven

// Version is the raven release, set at build time with
// -ldflags "-X github.com/simonhull/firebird-suite/raven.Version=..."
var Version = "0.1.0"
