// Package main provides the reelgen CLI tool.
//
// Usage:
//
//	reelgen [flags] <command> [args]
//
// Commands:
//
//	generate  - Synthesize a reel from a script: audio + caption timeline
//	script    - Write a conversation script with an LLM
//	voices    - Inspect the role-to-voice mapping
//	config    - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.reelgen/config.yaml.
//	Use 'reelgen config' commands to manage contexts.
package main

import (
	"fmt"
	"os"

	"github.com/reelgen/reelgen/cmd/reelgen/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
