package util

import (
	"regexp"
	"strings"
)

var (
	controlChars    = regexp.MustCompile(`[\x00-\x1F\x7F]+`)
	unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)
)

// SanitizeForLog removes control characters and newlines from user content before logging.
func SanitizeForLog(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return controlChars.ReplaceAllString(s, " ")
}

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with an
// underscore so certificate names are safe as filesystem names.
func SanitizeFilename(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}
