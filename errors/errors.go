package errors

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrUnkeyable indicates that a memoized call's arguments have no canonical
	// representation (functions, channels, cyclic values). Supply a resolver.
	ErrUnkeyable = errors.New("arguments cannot be keyed")
)

// Re-exported functions from github.com/pkg/errors and the standard library.
var (
	New          = errors.New
	Errorf       = errors.Errorf
	Wrap         = errors.Wrap
	Wrapf        = errors.Wrapf
	WithStack    = errors.WithStack
	WithMessage  = errors.WithMessage
	WithMessagef = errors.WithMessagef
	Cause        = errors.Cause
	Is           = stderrors.Is
	As           = stderrors.As
	Join         = stderrors.Join
)

// WithCause attaches an explicit root cause to err. The result reports err's
// message followed by the cause's, unwraps to err (so errors.Is matches the
// sentinel) and exposes the cause via Cause().
//
//	if err := json.Unmarshal(...); err != nil {
//	    return WithCause(ErrUnkeyable, err)
//	}
func WithCause(err error, cause error) error {
	return &withCause{err, cause}
}

type withCause struct {
	error
	cause error
}

func (w *withCause) Error() string { return w.error.Error() + ": " + w.cause.Error() }

func (w *withCause) Cause() error { return w.cause }

func (w *withCause) Unwrap() error { return w.error }

func (w *withCause) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%+v\n", w.Cause())
			io.WriteString(s, w.error.Error())
			return
		}
		fallthrough
	case 's', 'q':
		io.WriteString(s, w.Error())
	}
}
