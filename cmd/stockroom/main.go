// Package main provides the stockroom command: a small inventory tracker
// served as HTML pages, plus maintenance subcommands.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
)

func main() {
	// A .env file is optional; variables already set win.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitUserError)
	}
	os.Exit(exitSuccess)
}
