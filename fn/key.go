package bfn

import (
	"encoding/json"

	"github.com/brynbellomy/go-callwrap/errors"
)

// Key is the default cache key for an argument list: its JSON encoding, which
// is canonical for maps (keys sorted) and distinguishes 1 from "1".
//
// Values JSON cannot represent (functions, channels, complex numbers, NaN and
// ±Inf floats, cyclic structures) produce an error wrapping
// errors.ErrUnkeyable. Values whose
// encodings coincide share a key: a nil slice and a nil map both encode as
// null, unexported struct fields are ignored, and types with custom
// MarshalJSON methods key however they marshal. Use MemoizeBy when that is
// not good enough.
func Key[A any](args ...A) (string, error) {
	if len(args) == 0 {
		return "[]", nil
	}
	bs, err := json.Marshal(args)
	if err != nil {
		return "", errors.WithCause(errors.ErrUnkeyable, err)
	}
	return string(bs), nil
}
