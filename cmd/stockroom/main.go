// Command stockroom drives a storage through a small movement simulation. It is a
// smoke test and profiling harness for the library.
package main

import (
	"os"
)

// version is overwritten at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
