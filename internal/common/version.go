package common

// Set at build time with -ldflags "-X bartrix.dev/gtfs-tools/internal/common.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
)
