package workstate

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the release of the workstate toolkit.
var Version = strings.TrimSpace(version)
