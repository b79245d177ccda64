// Package file provides the TOML-backed ConfigStore used by the bfs CLI.
// The default location is ~/.bfs/config.toml.
package file
