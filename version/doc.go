// Package version exposes the module's build version for log and
// telemetry attributes.
//
// Version and Commit are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/shield/version.Version=1.0.0"
//
// When they are not set, the package falls back to VCS metadata stamped
// by the Go toolchain.
package version
