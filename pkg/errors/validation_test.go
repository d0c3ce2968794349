package errors

import (
	"strings"
	"testing"
)

func TestValidatePosition(t *testing.T) {
	tests := []struct {
		name    string
		line    int
		column  int
		wantErr bool
	}{
		{"first line", 1, 0, false},
		{"deep position", 420, 80, false},
		{"zero line", 0, 0, true},
		{"negative line", -3, 0, true},
		{"negative column", 1, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePosition(tt.line, tt.column)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePosition(%d, %d) error = %v, wantErr %v", tt.line, tt.column, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPosition) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidPosition)
			}
		})
	}
}

func TestValidateSource(t *testing.T) {
	if err := ValidateSource(""); err != nil {
		t.Errorf("empty source should be valid: %v", err)
	}
	if err := ValidateSource("display: grid;"); err != nil {
		t.Errorf("small source should be valid: %v", err)
	}
	err := ValidateSource(strings.Repeat("a", MaxSourceBytes+1))
	if !Is(err, ErrCodeSourceTooLarge) {
		t.Errorf("oversized source error = %v, want %v", err, ErrCodeSourceTooLarge)
	}
}

func TestValidateLanguage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"css", "css", false},
		{"mixed case", "TypeScript", false},
		{"empty infers", "", false},
		{"unknown but well-formed", "python", false},
		{"embedded space", "java script", true},
		{"control char", "css\x01", true},
		{"too long", strings.Repeat("x", 40), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLanguage(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLanguage(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "src/app.css", false},
		{"absolute", "/home/me/app.ts", false},
		{"empty", "", true},
		{"null byte", "a\x00b", true},
		{"too long", strings.Repeat("a", 5000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://api.webstatus.dev/v1/features", false},
		{"http", "http://localhost:8080/v1/features", false},
		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"no scheme", "api.webstatus.dev", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
