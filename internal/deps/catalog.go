package deps

// Category groups dependencies by provisioning concern.
type Category string

const (
	CategorySystem   Category = "system"
	CategoryLanguage Category = "language"
)

// PipxDependency is the catalog entry whose installation triggers shell
// profile PATH registration as a follow-up.
const PipxDependency = "pipx"

// Descriptor describes how to check for and install one prerequisite tool.
// Probe is a shell string because several checks rely on shell features;
// InstallArgs is an explicit apt-get argv to avoid quoting hazards.
type Descriptor struct {
	Name        string
	Category    Category
	Probe       string
	InstallArgs []string
}

// DefaultCatalog returns the fixed dependency set, defined once at process
// start and never mutated.
func DefaultCatalog() []Descriptor {
	return []Descriptor{
		{Name: "wget", Category: CategorySystem, Probe: "wget --version", InstallArgs: []string{"install", "-y", "wget"}},
		{Name: "git", Category: CategorySystem, Probe: "git --version", InstallArgs: []string{"install", "-y", "git"}},
		{Name: "curl", Category: CategorySystem, Probe: "curl --version", InstallArgs: []string{"install", "-y", "curl"}},
		{Name: "tmux", Category: CategorySystem, Probe: "tmux -V", InstallArgs: []string{"install", "-y", "tmux"}},
		{Name: "zsh", Category: CategorySystem, Probe: "zsh --version", InstallArgs: []string{"install", "-y", "zsh"}},
		{Name: "pipx", Category: CategoryLanguage, Probe: "pipx --version", InstallArgs: []string{"install", "-y", "pipx"}},
		{Name: "virtualenv", Category: CategoryLanguage, Probe: "virtualenv --version", InstallArgs: []string{"install", "-y", "python3-virtualenv"}},
	}
}
