// Package config loads ghostpad configuration.
//
// Configuration is resolved in three layers, each overriding the one before:
//
//  1. built-in defaults (Default)
//  2. a TOML or YAML file, chosen by extension
//  3. GHOSTPAD_* environment variables
//
// Example TOML:
//
//	[editor]
//	read_only = false
//	max_undo = 500
//
//	[persist]
//	dir = "~/.local/share/ghostpad"
//	key = "scratch"
//
//	[stream]
//	provider = "anthropic"
//	model = "claude-3-5-haiku-latest"
//
//	[logging]
//	level = "debug"
//
// A Watcher reloads the file when it changes on disk.
package config
