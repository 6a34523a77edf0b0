package handlers

import "testing"

func TestIsLocalPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/shared/collection?links=a,b", true},
		{"", false},
		{"https://evil.example.com", false},
		{"//evil.example.com", false},
		{`/\evil.example.com`, false},
		{"relative/path", false},
	}

	for _, tt := range tests {
		if got := isLocalPath(tt.path); got != tt.want {
			t.Errorf("isLocalPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
