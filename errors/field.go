package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field ties err to the named attribute of a validated value. It returns nil
// when err is nil, so that every check of a Validate method can be passed
// through it unconditionally.
//
// Name fields the way they are named in Go. Nested fields and slice elements
// use dot notation, for example Members.2 or Proposal.Target.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: fieldName, desc: description}
}

// AppendField adds the field error, if any, to errs.
func AppendField(errs error, fieldName string, err error) error {
	return Append(errs, Field(fieldName, err, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.field, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
}

func (e *fieldError) Cause() error {
	return e.parent
}

func (e *fieldError) Field() string {
	return e.field
}

// FieldErrors walks the error tree of err and returns all errors reported
// for fieldName. A matching field error is returned as a whole, its causes
// are not inspected.
func FieldErrors(err error, fieldName string) []error {
	if isNilErr(err) {
		return nil
	}
	if f, ok := err.(fielder); ok && f.Field() == fieldName {
		return []error{err}
	}
	switch e := err.(type) {
	case unpacker:
		// Unpack returns every child, Cause must not be followed too.
		var res []error
		for _, child := range e.Unpack() {
			res = append(res, FieldErrors(child, fieldName)...)
		}
		return res
	case causer:
		return FieldErrors(e.Cause(), fieldName)
	}
	return nil
}

type fielder interface {
	Field() string
}
