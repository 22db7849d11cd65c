package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no non-nil error is given, nil is returned. If exactly one non-nil
// error is given, that error is returned as it is. Otherwise all errors are
// flattened into a single multi error instance.
func Append(errs ...error) error {
	var flat multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			flat = append(flat, m...)
		} else {
			flat = append(flat, e)
		}
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return flat
	}
}

// multiErr represents a group of errors. It is returned by Append when more
// than one error is clubbed together.
type multiErr []error

var (
	_ error    = multiErr(nil)
	_ unpacker = multiErr(nil)
	_ coder    = multiErr(nil)
)

func (m multiErr) Error() string {
	if len(m) == 1 {
		return m[0].Error()
	}
	msgs := make([]string, len(m))
	for i, e := range m {
		msgs[i] = fmt.Sprintf("* %s", e)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(m), strings.Join(msgs, "\n\t"))
}

// Unpack returns all errors held by this instance.
func (m multiErr) Unpack() []error {
	return m
}

// ABCICode returns the code of the first error, consistent with a fail
// fast approach.
func (m multiErr) ABCICode() uint32 {
	if len(m) == 0 {
		return SuccessABCICode
	}
	return abciCode(m[0])
}
