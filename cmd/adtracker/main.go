// ABOUTME: Main entry point for the adtracker command line tool
// ABOUTME: Runs the cobra command tree and maps failures to a non-zero exit code

package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
