package lib

// CheckStrictness indicates how the "check" mode should behave when it
// encounters a problem which isn't fatal on its own.
type CheckStrictness int

const (
	CrashOnError CheckStrictness = iota
	WarnOnError
)
