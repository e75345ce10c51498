package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

const (
	MaxEmailLength    = 254
	MaxEmailLocalPart = 64
)

// NormalizeEmail returns the canonical form of an address supplied by an
// identity provider: trimmed, lowercased and a bare addr-spec whose domain has
// at least one dot. Users are keyed by this value.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", errors.New("email address is required")
	}
	if len(email) > MaxEmailLength {
		return "", fmt.Errorf("email address is too long (max %d characters)", MaxEmailLength)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "", errors.New("invalid email address format")
	}

	local, domain, _ := strings.Cut(email, "@")
	if len(local) > MaxEmailLocalPart {
		return "", fmt.Errorf("email local part is too long (max %d characters)", MaxEmailLocalPart)
	}
	if !validDomain(domain) {
		return "", fmt.Errorf("email domain %q is not a full host name", domain)
	}

	return email, nil
}

func ValidateEmail(email string) error {
	_, err := NormalizeEmail(email)
	return err
}

func validDomain(domain string) bool {
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, "[") {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
	}
	return true
}
