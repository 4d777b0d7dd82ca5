package errors

import (
	"strings"
	"unicode"
)

// maxReferenceLength bounds revision names accepted from flags, config files
// and the interactive viewer.
const maxReferenceLength = 256

// ValidateReference validates a revision name such as "HEAD", "main",
// "origin/feature", "v1.2.0", "HEAD~2" or an abbreviated commit hash.
//
// The rules follow git's own ref name restrictions where they matter for
// safety:
//   - No empty names
//   - No control characters, spaces or null bytes
//   - No ".." sequences, "@{" sequences or trailing ".lock"
//   - No leading "-" (would be parsed as an option by git tooling)
//   - Maximum length of 256 characters
func ValidateReference(name string) error {
	if name == "" {
		return New(ErrCodeInvalidReference, "reference cannot be empty")
	}

	if len(name) > maxReferenceLength {
		return New(ErrCodeInvalidReference, "reference too long (max %d characters)", maxReferenceLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidReference, "reference contains invalid characters: %q", name)
		}
	}

	if strings.HasPrefix(name, "-") {
		return New(ErrCodeInvalidReference, "reference cannot start with '-': %q", name)
	}

	for _, pattern := range []string{"..", "@{", "\\", "//"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidReference, "reference contains invalid sequence %q", pattern)
		}
	}

	if strings.HasSuffix(name, ".lock") || strings.HasSuffix(name, "/") || strings.HasSuffix(name, ".") {
		return New(ErrCodeInvalidReference, "reference has an invalid suffix: %q", name)
	}

	return nil
}

// ValidateRefPattern validates a ref selector used to limit the history walk.
// Selectors are reference names that may contain the glob characters
// '*', '?' and '[...]'.
func ValidateRefPattern(pattern string) error {
	stripped := strings.NewReplacer("*", "x", "?", "x", "[", "x", "]", "x").Replace(pattern)
	if err := ValidateReference(stripped); err != nil {
		return Wrap(ErrCodeInvalidReference, err, "invalid ref pattern %q", pattern)
	}
	return nil
}

// ValidateMaxCommits validates a commit-count limit. Zero means unlimited.
func ValidateMaxCommits(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "commit limit cannot be negative: %d", n)
	}
	return nil
}

// ValidatePath validates an output or input file path given on the command
// line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}
