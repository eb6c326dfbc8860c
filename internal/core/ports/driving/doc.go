// Package driving defines the interfaces through which the outside world
// drives the core: the CLI, the chat TUI and the MCP tool server all consume
// these ports.
package driving
