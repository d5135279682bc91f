package scaffold

import (
	"fmt"
	"regexp"
	"strings"
)

var nonIdentChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// SanitizeName turns a user supplied contract name into a crate and directory name.
func SanitizeName(name string) (string, error) {
	sanitized := strings.ToLower(strings.Trim(nonIdentChars.ReplaceAllString(name, "_"), "_"))
	if sanitized == "" {
		return "", fmt.Errorf("contract name '%s' has no usable characters", name)
	}
	return sanitized, nil
}
