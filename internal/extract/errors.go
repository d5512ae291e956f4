package extract

import "fmt"

// Kind classifies why an extraction failed
type Kind int

const (
	// KindConfigIndexOutOfRange means the configuration selector missed the catalog
	KindConfigIndexOutOfRange Kind = iota + 1
	// KindDecodeFailed covers missing, unreadable, unsupported or corrupt files
	KindDecodeFailed
	// KindUnknownAverageMethod means a catalog entry named an unsupported reduction
	KindUnknownAverageMethod
	// KindComputeFailed means feature computation rejected the decoded audio
	KindComputeFailed
)

func (k Kind) String() string {
	switch k {
	case KindConfigIndexOutOfRange:
		return "config index out of range"
	case KindDecodeFailed:
		return "decode failed"
	case KindUnknownAverageMethod:
		return "unknown average method"
	case KindComputeFailed:
		return "compute failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error reports a failed extraction with the inputs that caused it
type Error struct {
	Kind        Kind
	Path        string
	ConfigIndex int
	Cause       error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("extracting %q with configuration %d: %s", e.Path, e.ConfigIndex, e.Kind)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by Kind, so callers can test
// errors.Is(err, &extract.Error{Kind: extract.KindDecodeFailed})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of err if it is an *Error, else 0
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return 0
}
