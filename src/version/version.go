package version

// Flag marks development builds. It is empty on release branches.
const Flag = "develop"

var (
	// Version is the full version string
	Version = "0.1.0"

	// GitCommit is set with --ldflags "-X github.com/mosaicnetworks/dcr/src/version.GitCommit=$(git rev-parse HEAD)"
	GitCommit string
)

func init() {
	Version += versionSuffix(Flag, GitCommit)
}

func versionSuffix(flag, commit string) string {
	suffix := ""

	if flag != "" {
		suffix += "-" + flag
	}

	if len(commit) >= 8 {
		suffix += "-" + commit[:8]
	}

	return suffix
}
