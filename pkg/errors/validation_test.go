package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid uuid", "7d4f3c2e-0a5b-4a1e-9c9e-1f2d3c4b5a69", false},
		{"valid slug", "revenue-chart", false},
		{"valid namespaced", "dash:sales", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"space", "foo bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestValidateStorageKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "dashboard-layout", false},
		{"namespaced", "user:42/dashboard", false},

		{"empty", "", true},
		{"traversal", "../etc/passwd", true},
		{"backslash", "a\\b", true},
		{"double slash", "a//b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStorageKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStorageKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("ValidateStorageKey(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}

func TestValidateParamKey(t *testing.T) {
	if err := ValidateParamKey("title"); err != nil {
		t.Errorf("ValidateParamKey(title) = %v", err)
	}
	for _, bad := range []string{"", "   ", "a\x07b"} {
		if err := ValidateParamKey(bad); err == nil {
			t.Errorf("ValidateParamKey(%q) = nil, want error", bad)
		}
	}
}
