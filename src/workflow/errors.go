package workflow

import (
	"errors"
	"fmt"

	"github.com/newsdeskhq/newsdesk/src/pubrules"
)

type ErrorKind int

const (
	// The requested action is not legal from the article's current status.
	KindIllegalTransition ErrorKind = iota + 1
	// The actor's role (and any assignment) does not permit the action.
	KindUnauthorized
	// One or more publishing rule checks failed; Checklist carries them all.
	KindValidationFailed
	// The action requires feedback text and none was given.
	KindMissingFeedback
	// Article, review, or account is absent.
	KindNotFound
	// An atomic guard lost a race with a concurrent action. Callers should
	// refresh and retry.
	KindConcurrentModification
)

var errorKindNames = map[ErrorKind]string{
	KindIllegalTransition:      "illegal_transition",
	KindUnauthorized:           "unauthorized",
	KindValidationFailed:       "validation_failed",
	KindMissingFeedback:        "missing_feedback",
	KindNotFound:               "not_found",
	KindConcurrentModification: "concurrent_modification",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// All workflow failures are typed so that callers can map them to
// user-visible behavior. ValidationFailed is the only kind carrying
// structured detail (the full checklist).
type ActionError struct {
	Kind      ErrorKind
	Msg       string
	Checklist []pubrules.CheckResult
	Wrapped   error
}

func (e *ActionError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return e.Kind.String()
}

func (e *ActionError) Unwrap() error {
	return e.Wrapped
}

// Returns the workflow error kind of err, or 0 if err is not a workflow
// failure.
func KindOf(err error) ErrorKind {
	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		return actionErr.Kind
	}
	return 0
}

func illegalTransition(format string, args ...interface{}) error {
	return &ActionError{Kind: KindIllegalTransition, Msg: fmt.Sprintf(format, args...)}
}

func unauthorized(format string, args ...interface{}) error {
	return &ActionError{Kind: KindUnauthorized, Msg: fmt.Sprintf(format, args...)}
}

func validationFailed(checklist []pubrules.CheckResult) error {
	return &ActionError{
		Kind:      KindValidationFailed,
		Msg:       "article does not satisfy its category's publishing rules",
		Checklist: checklist,
	}
}

func missingFeedback(action Action) error {
	return &ActionError{Kind: KindMissingFeedback, Msg: fmt.Sprintf("%s requires feedback text", action)}
}

func notFound(what string) error {
	return &ActionError{Kind: KindNotFound, Msg: what + " not found"}
}

func concurrentModification(what string) error {
	return &ActionError{Kind: KindConcurrentModification, Msg: what + " was modified concurrently"}
}
