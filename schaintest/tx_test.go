package schaintest

import (
	"bytes"
	"testing"
)

func TestSequenceID(t *testing.T) {
	numToEnc := map[uint64][]byte{
		1:      []byte{0, 0, 0, 0, 0, 0, 0, 1},
		2:      []byte{0, 0, 0, 0, 0, 0, 0, 2},
		3:      []byte{0, 0, 0, 0, 0, 0, 0, 3},
		4:      []byte{0, 0, 0, 0, 0, 0, 0, 4},
		123:    []byte{0, 0, 0, 0, 0, 0, 0, 123},
		123123: []byte{0, 0, 0, 0, 0, 1, 224, 243},
	}
	for id, want := range numToEnc {
		got := SequenceID(uint64(id))
		if !bytes.Equal(want, got) {
			t.Fatalf("id=%d, want %d got %d", id, want, got)
		}
	}
}

func TestSequenceAddress(t *testing.T) {
	a, b := SequenceAddress(1), SequenceAddress(2)
	if err := a.Validate(); err != nil {
		t.Fatalf("invalid address: %s", err)
	}
	if a.Compare(b) != -1 {
		t.Fatalf("want %s < %s", a, b)
	}
	if !a.Equals(SequenceAddress(1)) {
		t.Fatal("address must be deterministic")
	}
}

func TestNewConditionIsUnique(t *testing.T) {
	a, b := NewCondition(), NewCondition()
	if a.Equals(b) {
		t.Fatal("conditions must differ")
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("invalid condition: %s", err)
	}
}
