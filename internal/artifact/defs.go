package artifact

// Pretender is the LLMNR/mDNS spoofing tool shipped as a platform-specific
// tarball. The fallback version is the last release verified by hand.
func Pretender() ToolDefinition {
	return ToolDefinition{
		Name:            "pretender",
		Repo:            "RedTeamPentesting/pretender",
		FallbackVersion: "v1.3.2",
		URLTemplate:     "https://github.com/RedTeamPentesting/pretender/releases/download/{version}/pretender_Linux_{arch}.tar.gz",
		Executable:      "pretender",
		Strategy:        StrategyLatest,
	}
}

// DCLookup is the DC enumeration script, distributed as a git repository.
func DCLookup() RepoDefinition {
	return RepoDefinition{
		Name: "dc-lookup",
		URL:  "https://github.com/mbb5546/dc-lookup.git",
	}
}

// Definitions returns the release-installed tool set.
func Definitions() []ToolDefinition {
	return []ToolDefinition{Pretender()}
}

// RepoDefinitions returns the checkout-installed tool set.
func RepoDefinitions() []RepoDefinition {
	return []RepoDefinition{DCLookup()}
}
