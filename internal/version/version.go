package version

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Build metadata for the shapediff CLI, overridable via -ldflags "-X".
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric component colored. Anything after
// the patch number (pre-release, build tag) is left as is.
func Colored() string {
	var major, minor, patch int
	var rest string
	n, _ := fmt.Sscanf(Version, "%d.%d.%d%s", &major, &minor, &patch, &rest)
	if n < 3 {
		return Version
	}
	return majorColor.Sprint(major) + "." + minorColor.Sprint(minor) + "." + patchColor.Sprint(patch) + rest
}

// Fprint writes the version banner: the version line plus optional commit and date.
func Fprint(w io.Writer, name string) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", name, Colored()); err != nil {
		return err
	}
	if GitCommit != "" {
		if _, err := fmt.Fprintf(w, "commit: %s\n", GitCommit); err != nil {
			return err
		}
	}
	if BuildDate != "" {
		if _, err := fmt.Fprintf(w, "built:  %s\n", BuildDate); err != nil {
			return err
		}
	}
	return nil
}
