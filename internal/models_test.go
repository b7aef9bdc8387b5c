package internal

import (
	"strings"
	"testing"
)

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short passes through", "Find entries", "Find entries"},
		{"exactly fifty", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"long is cut", strings.Repeat("a", 60), strings.Repeat("a", 50)},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateTitle(tt.in); got != tt.want {
				t.Errorf("TruncateTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateTitle_RuneSafe(t *testing.T) {
	// 60 multi-byte runes; a byte-based cut would split a character.
	in := strings.Repeat("é", 60)
	got := TruncateTitle(in)
	if n := len([]rune(got)); n != 50 {
		t.Errorf("truncated to %d runes, want 50", n)
	}
	if !strings.HasPrefix(in, got) {
		t.Error("truncation must not mangle multi-byte characters")
	}
}
