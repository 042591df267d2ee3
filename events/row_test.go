package events

import "testing"

func TestRowHas(t *testing.T) {
	r := Row[uint32]{Timestamp: 100, Mask: 0b0101}
	if !r.Has(0) {
		t.Error("bit 0 should be set")
	}
	if r.Has(1) {
		t.Error("bit 1 should not be set")
	}
	if !r.Has(2) {
		t.Error("bit 2 should be set")
	}
	if r.Has(31) {
		t.Error("bit 31 should not be set")
	}
}

func TestRowGenericWidths(t *testing.T) {
	var r16 Row[uint16] = Row[uint16]{Timestamp: 1, Mask: 1}
	var r32 Row[uint32] = Row[uint32]{Timestamp: 1, Mask: 1}
	var r64 Row[uint64] = Row[uint64]{Timestamp: 1, Mask: 1}
	if !r16.Has(0) || !r32.Has(0) || !r64.Has(0) {
		t.Error("Has should work identically across all three timestamp widths")
	}
}
