package model

// Scope classifies how much of the release pipeline has to run
type Scope string

const (
	// ScopeRuntime is a patch release within the same minor series
	ScopeRuntime Scope = "runtime"
	// ScopeFull is a minor or major bump
	ScopeFull Scope = "full"
)

// ClassifyScope returns ScopeRuntime when previous and current share the minor
// number and ScopeFull otherwise. Only the minor component is compared.
func ClassifyScope(previous, current ReleaseVersion) Scope {
	if previous.Minor == current.Minor {
		return ScopeRuntime
	}
	return ScopeFull
}

// Inspection is the metadata computed for a release branch
type Inspection struct {
	Current  ReleaseRecord
	Previous ReleaseVersion
	Scope    Scope
}
