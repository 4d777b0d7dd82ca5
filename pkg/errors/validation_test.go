package errors

import (
	"strings"
	"testing"
)

func TestValidateReference(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"head", "HEAD", false},
		{"branch", "main", false},
		{"remote branch", "origin/feature-x", false},
		{"tag", "v1.2.0", false},
		{"full ref", "refs/heads/main", false},
		{"ancestor suffix", "HEAD~2", false},
		{"short hash", "3f2a9c1", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"range", "main..topic", true},
		{"reflog", "main@{1}", true},
		{"option", "-rf", true},
		{"space", "my branch", true},
		{"newline", "main\n", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"double slash", "origin//main", true},
		{"lock suffix", "main.lock", true},
		{"trailing slash", "feature/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReference(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateReference(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidReference) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidReference)
			}
		})
	}
}

func TestValidateRefPattern(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"refs/heads/*", false},
		{"origin/release-?", false},
		{"v[0-9]*", false},
		{"main", false},
		{"", true},
		{"a..*", true},
	}
	for _, tt := range tests {
		err := ValidateRefPattern(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRefPattern(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateMaxCommits(t *testing.T) {
	for _, n := range []int{0, 1, 5000} {
		if err := ValidateMaxCommits(n); err != nil {
			t.Errorf("ValidateMaxCommits(%d) = %v", n, err)
		}
	}
	if err := ValidateMaxCommits(-1); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateMaxCommits(-1) = %v, want INVALID_INPUT", err)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "layout.json", false},
		{"nested", "out/graph.svg", false},
		{"absolute", "/tmp/graph.dot", false},
		{"empty", "", true},
		{"null byte", "a\x00b", true},
		{"control", "a\x01b", true},
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
