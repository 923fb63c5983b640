package conv

import "testing"

func TestID(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "gary", "gary"},
		{"bytes", []byte("pete"), "pete"},
		{"int", 42, "42"},
		{"int64", int64(42), "42"},
		{"uint64", uint64(42), "42"},
		{"float64", 42.5, "42.5"},
		{"bool", true, "true"},
	}
	for _, tt := range tests {
		if got := ID(tt.in); got != tt.want {
			t.Errorf("%s: ID(%v) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestID_EqualValuesCollide(t *testing.T) {
	// 不同表示的"同一个"标识符必须落到同一个 key
	if ID(42) != ID(int64(42)) {
		t.Error("int and int64 forms of the same id must collide")
	}
	if ID("42") != ID(42) {
		t.Error("string and int forms of the same id must collide")
	}
}
