package server

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Closures are neat", "Closures are neat"},
		{"ampersand kept", "Bold & brave", "Bold & brave"},
		{"less than kept", "a < b", "a < b"},
		{"tags stripped", "<b>Bold</b> text", "Bold text"},
		{"script dropped", "<script>alert(1)</script>safe", "safe"},
		{"encoded script dropped", "&lt;script&gt;alert(1)&lt;/script&gt;tail", "tail"},
		{"double encoded tag stripped", "&amp;lt;b&amp;gt;x", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitize(tt.in); got != tt.want {
				t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
