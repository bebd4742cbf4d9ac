// export_test.go exports private functions for white-box testing.
package logger

// CollectErrorEntriesExported and FormatErrorEntriesExported export the
// private error formatting functions for testing.
var (
	CollectErrorEntriesExported = collectErrorEntries
	FormatErrorEntriesExported  = formatErrorEntries
)
