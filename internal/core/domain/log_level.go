package domain

import "strings"

// LogLevel ranks the verbosity of a log sink or a single log line. Levels
// are spaced by 10 so finer levels can be inserted later without a
// renumbering migration.
type LogLevel int

const (
	// Silent suppresses all output.
	Silent LogLevel = 0
	// Quiet shows only warnings and errors.
	Quiet LogLevel = 10
	// Normal is the default: info, warnings, errors.
	Normal LogLevel = 20
	// Loud adds per-target Skipped/Succeeded status lines.
	Loud LogLevel = 30
	// Chatty adds change-detector "why dirty" reasoning.
	Chatty LogLevel = 40
	// Diag adds everything, including clean-target reasoning and permit
	// acquisition/release tracing.
	Diag LogLevel = 50
)

// String renders the level's canonical name.
func (l LogLevel) String() string {
	switch l {
	case Silent:
		return "Silent"
	case Quiet:
		return "Quiet"
	case Normal:
		return "Normal"
	case Loud:
		return "Loud"
	case Chatty:
		return "Chatty"
	case Diag:
		return "Diag"
	default:
		return "Unknown"
	}
}

// ParseLogLevel maps a case-insensitive level name to a LogLevel. It
// returns Normal and false if name is not recognised.
func ParseLogLevel(name string) (LogLevel, bool) {
	switch strings.ToLower(name) {
	case "silent":
		return Silent, true
	case "quiet":
		return Quiet, true
	case "normal":
		return Normal, true
	case "loud":
		return Loud, true
	case "chatty":
		return Chatty, true
	case "diag":
		return Diag, true
	default:
		return Normal, false
	}
}
