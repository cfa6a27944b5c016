// Package version provides build version information for the seedkit CLI.
//
// Version, git commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/seedkit/version.Version=1.0.0" ./cmd/seedkit
//
// When ldflags are absent the values fall back to the VCS stamp embedded by
// the Go toolchain.
package version
