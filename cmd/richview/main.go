// ABOUTME: Main entry point for the richview command line tool
// ABOUTME: Renders fragments, runs the preview server and inspects text

package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
