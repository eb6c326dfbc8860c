// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - LLMService: the opaque prompt-in/text-out model backend
//   - PatientStore: per-patient record persistence
//   - PromptStore: customisable prompt templates
//   - CheckLog: audit log of completed safety checks
//   - ConfigStore: persisted key/value application configuration
package driven
