package kraken

import "fmt"

// Kind classifies a core error, mirroring the error taxonomy every entry
// point maps onto a status code at the host boundary.
type Kind uint8

const (
	KindNotInitialized Kind = iota
	KindAlreadyInitialized
	KindThreadAffinity
	KindInvalidHandle
	KindInvalidArgument
	KindConstraintViolation
	KindSolverError
	KindBackendError
	KindNotFound
	KindInternal // recovered panic
)

func (k Kind) String() string {
	switch k {
	case KindNotInitialized:
		return "NotInitialized"
	case KindAlreadyInitialized:
		return "AlreadyInitialized"
	case KindThreadAffinity:
		return "ThreadAffinity"
	case KindInvalidHandle:
		return "InvalidHandle"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindConstraintViolation:
		return "ConstraintViolation"
	case KindSolverError:
		return "SolverError"
	case KindBackendError:
		return "BackendError"
	case KindNotFound:
		return "NotFound"
	case KindInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error is the core's error type. Every entry point that can fail returns
// one of these (wrapped by the standard error interface) so that
// errors.Is/errors.As work against Kind at call sites, while the capi layer
// maps Kind to the status-code convention (0 / -1 / -2).
type Error struct {
	Kind Kind
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is supports errors.Is(err, ErrKind(KindInvalidHandle)) style checks.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newErr(op string, kind Kind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// ErrKind returns a sentinel *Error carrying only a Kind, for use with
// errors.Is.
func ErrKind(k Kind) error { return &Error{Kind: k} }
