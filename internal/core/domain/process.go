package domain

// ProcessOptions configures a RecipeContext.Run invocation (spec.md §6
// process runner collaborator).
type ProcessOptions struct {
	// Dir is the working directory; "" means the caller's current directory.
	Dir string
	// Env is the full environment passed to the child process, in
	// "KEY=VALUE" form. A nil slice means "inherit os.Environ()".
	Env []string
	// LogPrefix tags every streamed stdout/stderr line, e.g. "[compile] ".
	LogPrefix string
}
