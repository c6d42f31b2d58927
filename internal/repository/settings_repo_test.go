package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePanelHostname(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid https", "https://panel.example.com", false},
		{"valid http", "http://panel.example.com", false},
		{"valid with port", "https://panel.example.com:8443", false},
		{"trailing slash", "https://panel.example.com/", true},
		{"empty", "", true},
		{"no scheme", "panel.example.com", true},
		{"wrong scheme", "ftp://panel.example.com", true},
		{"scheme only", "https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePanelHostname(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
