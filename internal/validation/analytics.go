package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxPathLength      = 2048
	MaxReferrerLength  = 2048
	MaxUserAgentLength = 512
)

// ValidatePath accepts site-relative paths only
func ValidatePath(path string) error {
	if path == "" {
		return errors.New("path is required")
	}

	if len(path) > MaxPathLength {
		return fmt.Errorf("path is too long (max %d characters)", MaxPathLength)
	}

	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return errors.New("path must be site-relative")
	}

	return nil
}

func ValidateReferrer(referrer string) error {
	if len(referrer) > MaxReferrerLength {
		return fmt.Errorf("referrer is too long (max %d characters)", MaxReferrerLength)
	}
	return nil
}

// TruncateUserAgent cuts ua to MaxUserAgentLength bytes without splitting a rune.
func TruncateUserAgent(ua string) string {
	if len(ua) <= MaxUserAgentLength {
		return ua
	}
	ua = ua[:MaxUserAgentLength]
	for len(ua) > 0 && !utf8.ValidString(ua) {
		ua = ua[:len(ua)-1]
	}
	return ua
}
