// SPDX-License-Identifier: MPL-2.0

package platform

import "testing"

func TestIsWindowsReservedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"CON lowercase", "con", true},
		{"CON uppercase", "CON", true},
		{"CON mixed case", "Con", true},
		{"PRN", "prn", true},
		{"AUX", "aux", true},
		{"NUL", "nul", true},
		{"COM1", "com1", true},
		{"COM9", "com9", true},
		{"LPT1", "lpt1", true},
		{"LPT9", "lpt9", true},

		// Extensions do not make a device name usable.
		{"CON.h", "con.h", true},
		{"NUL.inl", "NUL.inl", true},

		{"ordinary scope", "Public", false},
		{"prefix of reserved", "console", false},
		{"COM10", "com10", false},
		{"LPT10", "lpt10", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsWindowsReservedName(tt.input); got != tt.expected {
				t.Errorf("IsWindowsReservedName(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestReservedSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel     string
		wantSeg string
		wantOK  bool
	}{
		{"Public", "", false},
		{"Public/Aux", "Aux", true},
		{`Private\nul\Detail`, "nul", true},
		{"Con.d/Headers", "Con.d", true},
		{".", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		seg, ok := ReservedSegment(tt.rel)
		if seg != tt.wantSeg || ok != tt.wantOK {
			t.Errorf("ReservedSegment(%q) = %q, %v; want %q, %v", tt.rel, seg, ok, tt.wantSeg, tt.wantOK)
		}
	}
}
