package httpclient

import (
	"fmt"

	"github.com/amirx1991/crm-sub001/internal/apperrors"
)

type FailureKind string

const (
	KindNetwork      FailureKind = "network"
	KindUnauthorized FailureKind = "unauthorized"
	KindForbidden    FailureKind = "forbidden"
	KindNotFound     FailureKind = "not-found"
	KindServer       FailureKind = "server"
	KindOther        FailureKind = "other"
)

// Failure is the classification of a request that did not succeed. It
// owns no session state; the client applies session side effects before
// returning it.
type Failure struct {
	Kind       FailureKind
	StatusCode int

	// Message is the backend-provided message, if the body carried one
	Message string

	Err error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("request failed: kind=%s status=%d: %v", f.Kind, f.StatusCode, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// newFailure wires the failure to the apperrors sentinel for its kind so
// callers can match with errors.Is without importing this package's kinds.
func newFailure(kind FailureKind, status int, message string) *Failure {
	var err error
	switch kind {
	case KindNetwork:
		err = apperrors.ErrNetwork
	case KindUnauthorized:
		err = apperrors.ErrUnauthorized
	case KindForbidden:
		err = apperrors.ErrForbidden
	case KindNotFound:
		err = apperrors.ErrNotFound
	case KindServer:
		err = apperrors.ErrServer
	default:
		err = fmt.Errorf("unexpected status %d", status)
	}

	return &Failure{
		Kind:       kind,
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}
