// Package main is the entrypoint for produce, a macOS hardware reader.
package main

import "github.com/CristiGvl/produce/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
