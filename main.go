// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for cursor-free.
//
// Usage:
//
//	go run . [flags]
//	./cursor-free [command] [flags]
//
// See --help for options.
package main

import (
	"os"

	"github.com/HappyFox001/cursor-free/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
