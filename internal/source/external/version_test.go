package external

import (
	"strings"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		version     string
		expectError bool
		want        Version
	}{
		{"0.1.0", false, Version{0, 1, 0}},
		{"2.5.3", false, Version{2, 5, 3}},
		{"10.99.42", false, Version{10, 99, 42}},
		{"invalid", true, Version{}},
		{"1", true, Version{}},
		{"1.2", true, Version{}},
		{"1.-2.0", true, Version{}},
	}

	for _, tt := range tests {
		v, err := ParseVersion(tt.version)
		if tt.expectError {
			if err == nil {
				t.Errorf("ParseVersion(%q) expected error but got none", tt.version)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVersion(%q) unexpected error: %v", tt.version, err)
		}
		if v != tt.want {
			t.Errorf("ParseVersion(%q) = %s, want %s", tt.version, v, tt.want)
		}
	}
}

func TestIsCompatible(t *testing.T) {
	tests := []struct {
		pluginVersion string
		compatible    bool
		errorContains string
	}{
		{"0.1.0", true, ""},
		{"0.1.7", true, ""},
		{"0.4.2", true, ""},
		{"0.0.9", false, "too old"},
		{"1.0.0", false, "incompatible major version"},
		{"invalid", false, "failed to parse"},
	}

	for _, tt := range tests {
		compatible, err := IsCompatible(tt.pluginVersion)
		if compatible != tt.compatible {
			t.Errorf("IsCompatible(%q) = %v, want %v", tt.pluginVersion, compatible, tt.compatible)
		}
		if tt.errorContains == "" {
			if err != nil {
				t.Errorf("IsCompatible(%q) unexpected error: %v", tt.pluginVersion, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.errorContains) {
			t.Errorf("IsCompatible(%q) error = %v, want error containing %q", tt.pluginVersion, err, tt.errorContains)
		}
	}
}
