package domain

import "time"

// BuildResult is the persisted record of a target's last successful
// execution: the target itself, the ordered dependencies its recipe
// observed, and when it was built. Only successful runs are persisted.
type BuildResult struct {
	Target       Target
	Dependencies []Dependency
	BuiltAt      time.Time
}

// NewBuildResult creates an empty, in-progress BuildResult for target.
// The engine hands a pointer to this to the recipe runtime, which appends
// to Dependencies as the recipe calls need/get_env/get_var/get_files.
func NewBuildResult(target Target) *BuildResult {
	return &BuildResult{Target: target}
}
