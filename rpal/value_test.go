package rpal

import "testing"

func TestComputeSizeGrowsWithTupleArity(t *testing.T) {
	small := NewTuple([]Value{NewInt(1)})
	big := NewTuple([]Value{NewInt(1), NewInt(2), NewInt(3)})
	if big.ComputeSize() <= small.ComputeSize() {
		t.Errorf("bigger tuple should report a bigger size: %d vs %d", big.ComputeSize(), small.ComputeSize())
	}
}

func TestComputeSizeStringGrowsWithLength(t *testing.T) {
	short := NewVString("a")
	long := NewVString("a much longer string value")
	if long.ComputeSize() <= short.ComputeSize() {
		t.Errorf("longer string should report a bigger size")
	}
}
