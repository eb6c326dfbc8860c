// Package services implements the driving ports: patient record management
// with the active-patient selection, the structured order parser, the safety
// check orchestrator and the chat session state machine.
package services
