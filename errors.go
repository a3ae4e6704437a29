package matchex

import "fmt"

// InvalidPatternError reports a malformed pattern at registration time.
// Matching never sees an invalid pattern: Add rejects it up front.
type InvalidPatternError struct {
	Key    string
	Index  int // position of the offending pattern in the Add call
	Reason string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %d for key %q: %s", e.Index, e.Key, e.Reason)
}

// MissingAnnotationError reports that a registered pattern references an
// attribute the supplied tokens were never annotated with.
type MissingAnnotationError struct {
	Attr string
	Pipe string // upstream component that would have produced the attribute
}

func (e *MissingAnnotationError) Error() string {
	return fmt.Sprintf("pattern references %s but the tokens carry no such annotation; run the %s first or use AllowMissing", e.Attr, e.Pipe)
}

// UnknownKeyError reports an operation on a rule key that was never added.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("no rule registered under key %q", e.Key)
}
