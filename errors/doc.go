// Package errors provides the structured error type shared by every diarkit
// package.
//
// An AppError carries a machine-readable code, a human-readable message and
// optional details. Malformed segments are never errors (they are dropped and
// counted by the timeline package); AppError is reserved for invalid
// construction such as a nil timeline or a configuration that fails
// validation. Nothing in diarkit is retryable, so codes map to CLI exit
// statuses rather than retry policies.
package errors
