// Package main implements scribectl, the operator CLI for the Scribe API.
// Its commands talk directly to the database; jobs queued here are picked up
// by the server's task runner.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
