// Package file provides file-backed configuration adapters: a TOML config
// store and a prompt store of user-editable LLM prompt templates, both
// living under the guardian config directory (~/.guardian by default).
package file
