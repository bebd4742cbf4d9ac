// Package wiring registers all Graft nodes for the application.
//
// Only adapters that can be constructed with no run-time arguments are
// wired through Graft: db and buildfile both need a project-relative path
// supplied by the caller at Script.Run time, so they are constructed
// directly there instead (the teacher's own config/fs adapters follow the
// same rule — neither carries a node.go).
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/forge/internal/adapters/fileset"
	_ "go.trai.ch/forge/internal/adapters/logger"
	_ "go.trai.ch/forge/internal/adapters/process"
)
