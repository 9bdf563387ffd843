package clip

import (
	"fmt"
	"strings"
	"unicode"
)

// SanitizeProjectName keeps letters, digits, spaces, hyphens and
// underscores, then turns spaces into underscores. Anything else is
// dropped so the name is safe as a filename on every platform.
func SanitizeProjectName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	clean := strings.TrimSpace(b.String())
	return strings.ReplaceAll(clean, " ", "_")
}

// clipFilename builds the final artifact name: sanitized project name plus
// a 3-digit, 1-based sequence number.
func clipFilename(projectName string, number int) string {
	clean := SanitizeProjectName(projectName)
	if clean == "" {
		clean = "Untitled"
	}
	return fmt.Sprintf("%s_%03d.mp4", clean, number)
}
