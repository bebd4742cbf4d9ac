package logger

import (
	"errors"
	"strings"
)

// messager describes an error that can report its own message without the
// chain. This matches the Message() method provided by zerr.Error
// (go.trai.ch/zerr v0.3.0+). If zerr's API changes, errors fall back to
// standard chain-less formatting.
type messager interface {
	Message() string
}

// ErrorEntry is one link of a formatted error chain.
type ErrorEntry struct {
	Message string
}

// FormatError renders err as a human-readable, hierarchical "Caused by"
// chain, the way the console sink prints a build failure. It returns "" for
// a nil error.
func FormatError(err error) string {
	return formatErrorEntries(collectErrorEntries(err))
}

func collectErrorEntries(err error) []ErrorEntry {
	if err == nil {
		return nil
	}

	var entries []ErrorEntry
	current := err
	for current != nil {
		if m, ok := current.(messager); ok {
			entries = append(entries, ErrorEntry{Message: m.Message()})
			current = errors.Unwrap(current)
			continue
		}
		entries = append(entries, ErrorEntry{Message: current.Error()})
		break
	}
	return entries
}

func formatErrorEntries(entries []ErrorEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var lines []string
	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, l := range msgLines[1:] {
				lines = append(lines, "       "+l)
			}
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0])
		for _, l := range msgLines[1:] {
			lines = append(lines, "      "+l)
		}
	}

	return strings.Join(lines, "\n")
}
