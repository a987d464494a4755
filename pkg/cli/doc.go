// Package cli provides shared plumbing for the reelgen command-line
// tool.
//
// This package includes:
//   - Configuration management (named contexts, kubectl style)
//   - Output formatting (YAML, JSON, raw, with optional jq filtering)
//   - Request file loading (YAML/JSON)
//   - Styled terminal summaries
//
// Configuration is stored in ~/.reelgen/config.yaml. A context bundles
// provider credentials, whisper settings, and cache location, so
// switching between a personal and a team setup is one command.
package cli
