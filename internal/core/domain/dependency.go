package domain

import "time"

// DependencyKind discriminates the variants of Dependency.
type DependencyKind uint8

const (
	// DepFileSnapshot records that a file was consumed with an observed mtime.
	DepFileSnapshot DependencyKind = iota
	// DepArtifact records that the recipe demanded another target via need.
	DepArtifact
	// DepEnvVar records that the recipe read an OS environment variable.
	DepEnvVar
	// DepScriptVar records that the recipe read a script-level variable.
	DepScriptVar
	// DepFilelist records that the recipe enumerated files matching a glob.
	DepFilelist
	// DepAlwaysRerun records that the recipe opted out of caching.
	DepAlwaysRerun
)

// Dependency is a tagged variant capturing one thing a recipe observed
// while it ran. Only the fields relevant to Kind are populated; this
// mirrors a sum type without resorting to interface dispatch, matching the
// source's tagged-variant design.
type Dependency struct {
	Kind DependencyKind

	// DepFileSnapshot
	Path  string
	Mtime time.Time

	// DepArtifact
	Target Target

	// DepEnvVar / DepScriptVar
	VarName  string
	VarValue string
	VarSet   bool // false means the variable was absent when observed

	// DepFilelist
	FilesetSpec string
	Resolved    []string
}

// FileSnapshot constructs a DepFileSnapshot dependency.
func FileSnapshot(path string, mtime time.Time) Dependency {
	return Dependency{Kind: DepFileSnapshot, Path: path, Mtime: mtime}
}

// ArtifactDep constructs a DepArtifact dependency.
func ArtifactDep(target Target) Dependency {
	return Dependency{Kind: DepArtifact, Target: target}
}

// EnvVarDep constructs a DepEnvVar dependency. set reports whether the
// variable was present in the environment at observation time.
func EnvVarDep(name, value string, set bool) Dependency {
	return Dependency{Kind: DepEnvVar, VarName: name, VarValue: value, VarSet: set}
}

// ScriptVarDep constructs a DepScriptVar dependency.
func ScriptVarDep(name, value string, set bool) Dependency {
	return Dependency{Kind: DepScriptVar, VarName: name, VarValue: value, VarSet: set}
}

// FilelistDep constructs a DepFilelist dependency.
func FilelistDep(spec string, resolved []string) Dependency {
	return Dependency{Kind: DepFilelist, FilesetSpec: spec, Resolved: resolved}
}

// AlwaysRerunDep constructs a DepAlwaysRerun dependency.
func AlwaysRerunDep() Dependency {
	return Dependency{Kind: DepAlwaysRerun}
}
