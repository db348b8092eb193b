// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-blockcipher.
//
// go-blockcipher is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package encoding

import (
	"errors"
	"testing"
)

func TestEncodeUnits(t *testing.T) {
	tests := []struct {
		name  string
		units []uint16
		want  string
	}{
		{"empty", nil, ""},
		{"single", []uint16{0x0041}, "0041"},
		{"high byte", []uint16{0xabcd, 0x0001}, "abcd0001"},
		{"surrogates", []uint16{0xd83d, 0xdd10}, "d83ddd10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeUnits(tt.units); got != tt.want {
				t.Errorf("EncodeUnits() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeUnits(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []uint16
	}{
		{"lowercase", "abcd0001", []uint16{0xabcd, 0x0001}},
		{"uppercase", "ABCD0001", []uint16{0xabcd, 0x0001}},
		{"grouped", "abcd 0001\n", []uint16{0xabcd, 0x0001}},
		{"empty", "", []uint16{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeUnits(tt.input)
			if err != nil {
				t.Fatalf("DecodeUnits() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("DecodeUnits() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("DecodeUnits()[%d] = %#04x, want %#04x", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecodeUnits_Invalid(t *testing.T) {
	for _, input := range []string{"abc", "abcdz001", "0041 00"} {
		t.Run(input, func(t *testing.T) {
			_, err := DecodeUnits(input)
			if !errors.Is(err, ErrInvalidEncodingHex) {
				t.Errorf("DecodeUnits(%q) error = %v, want ErrInvalidEncodingHex", input, err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	units := []uint16{0, 1, 0x7fff, 0x8000, 0xffff}
	got, err := DecodeUnits(EncodeUnits(units))
	if err != nil {
		t.Fatalf("DecodeUnits() error = %v", err)
	}
	for i := range units {
		if got[i] != units[i] {
			t.Errorf("round trip [%d] = %#04x, want %#04x", i, got[i], units[i])
		}
	}
}
