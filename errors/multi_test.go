package errors

import (
	"reflect"
	"testing"
)

func TestAppend(t *testing.T) {
	cases := map[string]struct {
		errs []error
		want error
	}{
		"nothing": {
			errs: nil,
			want: nil,
		},
		"only nils are ignored": {
			errs: []error{nil, nil},
			want: nil,
		},
		"single error is returned as it is": {
			errs: []error{nil, ErrNotFound},
			want: ErrNotFound,
		},
		"two errors are grouped": {
			errs: []error{ErrNotFound, ErrMsg},
			want: multiErr{ErrNotFound, ErrMsg},
		},
		"nested groups are flattened": {
			errs: []error{Append(ErrNotFound, ErrMsg), ErrState},
			want: multiErr{ErrNotFound, ErrMsg, ErrState},
		},
		"duplicates are kept": {
			errs: []error{ErrNotFound, ErrNotFound},
			want: multiErr{ErrNotFound, ErrNotFound},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := Append(tc.errs...); !reflect.DeepEqual(tc.want, got) {
				t.Fatalf("want %#v, got %#v", tc.want, got)
			}
		})
	}
}

func TestMultiErrABCICode(t *testing.T) {
	err := Append(Wrap(ErrEmpty, "name"), ErrNotFound)
	if code, _ := ABCIInfo(err, false); code != ErrEmpty.ABCICode() {
		t.Fatalf("want code of the first error, got %d", code)
	}
}
