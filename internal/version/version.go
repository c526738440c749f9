// Package version holds the astdump release version printed by --version.
package version

// Set at link time:
// go build -ldflags "-X astdump/internal/version.Version=1.0.0 -X astdump/internal/version.Commit=$(git rev-parse HEAD)"
var (
	Version = "0.3.0"
	Commit  = ""
)

// Info returns the version, followed by the short commit when one was linked in.
func Info() string {
	if len(Commit) >= 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}
