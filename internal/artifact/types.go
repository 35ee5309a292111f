package artifact

// Strategy selects how a tool's install version is resolved.
type Strategy string

const (
	// StrategyLatest queries the release host for the newest version and
	// falls back to the hardcoded known-good version on any failure.
	StrategyLatest Strategy = "latest"
	// StrategyStatic always installs the pinned version.
	StrategyStatic Strategy = "static"
)

// ToolDefinition contains the metadata required to install a released
// binary. URLTemplate carries {version} and {arch} placeholders.
type ToolDefinition struct {
	Name            string
	Repo            string
	FallbackVersion string
	URLTemplate     string
	Executable      string
	Strategy        Strategy
}

// RepoDefinition describes a tool distributed as a git checkout.
type RepoDefinition struct {
	Name string
	URL  string
}

// Release is the resolved version and download location for one install
// attempt. Version is never empty.
type Release struct {
	Version     string
	DownloadURL string
}

// Status captures the outcome of an install.
type Status struct {
	Tool      string   `json:"tool"`
	Version   string   `json:"version,omitempty"`
	Path      string   `json:"path,omitempty"`
	Installed bool     `json:"installed"`
	Notes     []string `json:"notes,omitempty"`
	Error     string   `json:"error,omitempty"`
}
