// Package main is the entry point for folio. It serves the public site and
// JSON API, and carries the offline maintenance commands for content data.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
