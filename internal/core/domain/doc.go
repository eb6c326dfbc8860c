// Package domain contains the core business types for the guardian CLI:
// patient records, parsed medication orders, safety check results and the
// chat session state machine. Types here have no dependencies on adapters.
package domain
