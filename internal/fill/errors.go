package fill

import (
	"errors"
	"fmt"
)

// FailureKind categorizes terminal fill failures. Per-triple problems are
// never reported through EngineError; they are logged and skipped.
type FailureKind string

const (
	KindFetch     FailureKind = "fetch"     // source bytes unreachable
	KindParse     FailureKind = "parse"     // bytes are not a readable PDF
	KindSerialize FailureKind = "serialize" // writing the filled document failed
)

// EngineError is a terminal, whole-document fill failure.
type EngineError struct {
	Op   string
	Kind FailureKind
	Err  error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("fill engine %s error in %s: %v", e.Kind, e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is matches any EngineError of the same kind, so callers can branch on
// failure category with errors.Is.
func (e *EngineError) Is(target error) bool {
	var t *EngineError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// Sentinel values for errors.Is checks.
var (
	ErrFetch     = &EngineError{Kind: KindFetch, Err: fmt.Errorf("document fetch failed")}
	ErrParse     = &EngineError{Kind: KindParse, Err: fmt.Errorf("document parse failed")}
	ErrSerialize = &EngineError{Kind: KindSerialize, Err: fmt.Errorf("document serialize failed")}
)
