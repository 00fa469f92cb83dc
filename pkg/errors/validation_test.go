package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "model-42", false},
		{"aggregate", "collapsed-trainingDataset", false},
		{"unicode", "übersicht-1", false},
		{"empty", "", true},
		{"control", "model\n42", true},
		{"too long", strings.Repeat("a", 257), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateNodeID(%q) code = %v, want %v", tt.id, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateGraphPath(t *testing.T) {
	tests := []struct {
		path string
		code Code
	}{
		{"graph.json", ""},
		{"dir/graph.TOML", ""},
		{"", ErrCodeInvalidPath},
		{"a\x00.json", ErrCodeInvalidPath},
		{"graph.yaml", ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		err := ValidateGraphPath(tt.path)
		if got := GetCode(err); got != tt.code {
			t.Errorf("ValidateGraphPath(%q) code = %q, want %q", tt.path, got, tt.code)
		}
	}
}
