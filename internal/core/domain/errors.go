package domain

import "go.trai.ch/zerr"

var (
	// ErrNoRule is returned when a demanded target matches no rule and no
	// file of that name exists on disk.
	ErrNoRule = zerr.New("neither rule nor file is found for target")

	// ErrRecipeFailed is returned when a recipe body returns an error while
	// building a target.
	ErrRecipeFailed = zerr.New("recipe failed")

	// ErrDatabaseCorrupt names the condition in which the build database
	// log ends in an unreadable tail. db.Open does not return it: it
	// truncates the log to its last valid record, reports this error's
	// message through its log callback, and continues with the records
	// read before the corrupt tail.
	ErrDatabaseCorrupt = zerr.New("build database is corrupt, continuing with its last valid records")

	// ErrTargetNotFound is not returned by the engine itself: a target name
	// that resolves to no rule and no file is reported with ErrNoRule.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrNoWantSpecified is not returned by Script.Run, which defaults an
	// empty want list to "main"; it is available to callers that require an
	// explicit want list.
	ErrNoWantSpecified = zerr.New("no want targets specified")

	// ErrDuplicateRule is reserved for rule-set validation extensions; the
	// core rule matcher never raises it since overlapping rules are
	// resolved by first-match-wins, but a stricter mode may want it.
	ErrDuplicateRule = zerr.New("duplicate rule")

	// ErrBuildFailed is the top-level error returned by the script driver
	// when fail_on_error is set and any target in the root exec_many failed.
	ErrBuildFailed = zerr.New("build failed")
)
