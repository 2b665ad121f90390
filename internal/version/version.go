package version

import "runtime/debug"

// Version is overridden at build time with
// -ldflags "-X github.com/stack-auth/stack-quickstart/internal/version.Version=v1.2.3".
var Version = "unknown"

func init() {
	if Version != "unknown" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if mainVersion := info.Main.Version; mainVersion != "" && mainVersion != "(devel)" {
		Version = mainVersion
	}
}
