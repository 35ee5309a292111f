package deps

import "testing"

func TestMeetsMinimum(t *testing.T) {
	tests := []struct {
		version string
		minimum string
		want    bool
	}{
		{"3.11.2", "3.7", true},
		{"3.7", "3.7", true},
		{"3.6.9", "3.7", false},
		{"2.7.18", "3.7", false},
		{"3.7.0", "3.7", true},
		{"", "3.7", false},
		{"3.11.2", "", true},
		{"v1.3.2", "1.3", true},
	}

	for _, tt := range tests {
		if got := meetsMinimum(tt.version, tt.minimum); got != tt.want {
			t.Errorf("meetsMinimum(%q, %q) = %v, want %v", tt.version, tt.minimum, got, tt.want)
		}
	}
}

func TestNumericParts(t *testing.T) {
	got := numericParts("v1.3.2-rc4")
	want := []int{1, 3, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("numericParts = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("numericParts[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
