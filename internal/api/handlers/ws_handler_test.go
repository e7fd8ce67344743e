package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"empty list allows any", nil, "https://evil.example", true},
		{"exact match", []string{"https://app.elevo.io"}, "https://app.elevo.io", true},
		{"case insensitive", []string{"https://App.Elevo.io"}, "https://app.elevo.io", true},
		{"entries are trimmed", []string{" https://app.elevo.io "}, "https://app.elevo.io", true},
		{"mismatch rejected", []string{"https://app.elevo.io"}, "https://evil.example", false},
		{"second entry matches", []string{"https://staging.elevo.io", "https://app.elevo.io"}, "https://app.elevo.io", true},
		{"no origin header rejected", []string{"https://app.elevo.io"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, originAllowed(tt.allowed, tt.origin))
		})
	}
}
