package deps

import "errors"

// ErrAborted signals that the operator declined to continue at a
// confirmation point. The process should exit with code 1.
var ErrAborted = errors.New("aborted by operator")

// Decision answers a single yes/no question. A nil Decision answers no,
// which keeps every prompt fail-closed by default.
type Decision func(prompt string) bool

// Ask answers the prompt, treating a nil Decision as a refusal.
func (d Decision) Ask(prompt string) bool {
	if d == nil {
		return false
	}
	return d(prompt)
}

// Decisions collects the confirmation points of the provisioning pipeline so
// it can run without a terminal attached.
type Decisions struct {
	InstallMissing              Decision
	ContinueWithoutInstall      Decision
	ContinueStillMissing        Decision
	ContinueBelowMinimum        Decision
	ContinueAfterUpdateFailure  Decision
	ApplyUpgrades               Decision
	ContinueAfterUpgradeFailure Decision
}

// AlwaysYes answers every decision affirmatively; used by --yes and the
// assume_yes config setting.
func AlwaysYes() Decisions {
	yes := Decision(func(string) bool { return true })
	return Decisions{
		InstallMissing:              yes,
		ContinueWithoutInstall:      yes,
		ContinueStillMissing:        yes,
		ContinueBelowMinimum:        yes,
		ContinueAfterUpdateFailure:  yes,
		ApplyUpgrades:               yes,
		ContinueAfterUpgradeFailure: yes,
	}
}
