// Package file implements the ConfigStore port on top of a TOML file.
//
// Settings live in ~/.shuka/config.toml by default. Nested TOML tables are
// flattened to dot-notation keys on load, so "agent.api_key" addresses
//
//	[agent]
//	api_key = "..."
package file
