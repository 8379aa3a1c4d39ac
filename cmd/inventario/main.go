// Package main provides the entry point for the inventario CLI tool.
package main

import "github.com/bvpisos-datascience/inventariobvp/cmd/inventario/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
