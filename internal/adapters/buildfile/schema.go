package buildfile

// Config represents the structure of the optional forge.yaml config file
// (spec.md §6): script-level vars, a default want list, the worker pool
// size, and logging levels. It is a driver-level convenience, never the
// script DSL itself.
type Config struct {
	Vars         map[string]string `yaml:"vars"`
	Want         []string          `yaml:"want"`
	Threads      int               `yaml:"threads"`
	ConsoleLevel string            `yaml:"con_log_level"`
	FileLog      string            `yaml:"file_log"`
	FileLevel    string            `yaml:"file_log_level"`
}
