// Package version reports build information for the diarkit binary.
//
// Values are set at compile time via -ldflags and otherwise taken from the
// VCS stamp embedded by the Go toolchain:
//
//	go build -ldflags "-X github.com/kbukum/diarkit/version.Version=1.0.0" ./cmd/diarkit
package version
