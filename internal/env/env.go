package env

const AppName = "raidplan"

// Set at build time with -ldflags "-X github.com/ostafen/raidplan/internal/env.Version=...".
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
