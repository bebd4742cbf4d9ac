package domain

// RecipeContext is the ambient handle a running recipe uses to demand other
// targets and record the dependencies it observes. The engine's recipe
// runtime (internal/engine/recipe) provides the concrete implementation;
// this interface lives in domain so Rule/Recipe can reference it without
// the domain package depending on the engine.
type RecipeContext interface {
	// Need resolves each name to a Target (phony if a phony rule matches,
	// otherwise a File rooted at the project root), executes them, and
	// appends an ArtifactDep for each to the current BuildResult.
	Need(names ...string) error

	// NeedFiles behaves like Need but always resolves names as File targets,
	// skipping the phony-shadowing check.
	NeedFiles(paths ...string) error

	// GetEnv reads an OS environment variable and records an EnvVar dependency.
	GetEnv(name string) (value string, ok bool)

	// GetVar reads a script-level variable and records a ScriptVar dependency.
	GetVar(name string) (value string, ok bool)

	// GetFiles expands a glob fileset and records a Filelist dependency.
	GetFiles(fileset string) ([]string, error)

	// AlwaysRerun appends an AlwaysRerun dependency, opting the target out
	// of caching regardless of what else it records.
	AlwaysRerun()

	// WriteLog emits a log line at the given level, tagged with the target
	// currently being built.
	WriteLog(level LogLevel, message string)

	// Run executes an external command and waits for it to finish, streaming
	// its stdout/stderr through the recipe's logger (spec.md §6 process
	// runner collaborator: "exposed to recipe code for recipe helpers").
	Run(exe string, args []string, opts ProcessOptions) (exitCode int, err error)
}

// Recipe is the user-supplied body of a Rule.
type Recipe func(ctx RecipeContext) error
