// Package version reports the build of the bridge command.
//
// Version and commit are set at link time and fall back to the VCS stamp
// the Go toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/bridge/version.Version=1.2.0" ./cmd/bridge
package version
