package units

import "testing"

func TestIsValidLength(t *testing.T) {
	tests := []struct {
		unit  string
		valid bool
	}{
		{"m", true},
		{"mm", true},
		{"um", true},
		{"µm", false},
		{"km", false},
		{"", false},
		{"M", false},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			if got := IsValidLength(tt.unit); got != tt.valid {
				t.Errorf("IsValidLength(%q) = %v, want %v", tt.unit, got, tt.valid)
			}
		})
	}
}

func TestLengthScale(t *testing.T) {
	tests := []struct {
		unit string
		want float64
	}{
		{Metre, 1},
		{Millimetre, 1e3},
		{Micrometre, 1e6},
		{"furlong", 1},
	}
	for _, tt := range tests {
		if got := LengthScale(tt.unit); got != tt.want {
			t.Errorf("LengthScale(%q) = %g, want %g", tt.unit, got, tt.want)
		}
	}
}

func TestLengthLabel(t *testing.T) {
	if got := LengthLabel(Micrometre); got != "µm" {
		t.Errorf("LengthLabel(um) = %q", got)
	}
	if got := LengthLabel(""); got != "m" {
		t.Errorf("LengthLabel(\"\") = %q", got)
	}
}

func TestGetValidLengthUnitsString(t *testing.T) {
	if got := GetValidLengthUnitsString(); got != "m, mm, um" {
		t.Errorf("GetValidLengthUnitsString() = %q", got)
	}
}
