package irc

import "fmt"

// Version information, set at build time.
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// VersionString is the CTCP VERSION reply.
func VersionString() string {
	return fmt.Sprintf("ircengine %s (built %s, commit %s)", Version, BuildDate, GitCommit)
}
