package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	email, err := NormalizeEmail("  Ada.Lovelace@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "ada.lovelace@example.com", email)

	email, err = NormalizeEmail("grace+navy@mail.example.org")
	require.NoError(t, err)
	assert.Equal(t, "grace+navy@mail.example.org", email)
}

func TestNormalizeEmailRejects(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"not-an-email",
		"ada@localhost",
		"ada@example.",
		"ada@.example.com",
		"ada@-example.com",
		"ada@[127.0.0.1]",
		"Ada <ada@example.com>",
		"ada@example.com, eve@example.com",
		strings.Repeat("a", 65) + "@example.com",
		"ada@" + strings.Repeat("a", 250) + ".com",
	} {
		_, err := NormalizeEmail(raw)
		assert.Error(t, err, raw)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ada@example.com"))
	assert.Error(t, ValidateEmail("ada@example"))
}
