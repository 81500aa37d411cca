package screens

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.com", "user.name+tag@sub.example.co", "X_1%@d.io"}
	for _, email := range valid {
		assert.True(t, ValidEmail(email), email)
	}

	invalid := []string{"", "plain", "@b.com", "a@b", "a@.com", "a@b.c", "a b@c.com"}
	for _, email := range invalid {
		assert.False(t, ValidEmail(email), email)
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "5551234567", NormalizePhone("(555) 123-4567"))
	assert.Equal(t, "5551234567", NormalizePhone("555.123.4567"))
	assert.Equal(t, "15551234567", NormalizePhone("+1 555 123 4567"))
	assert.Equal(t, "", NormalizePhone("no digits"))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("(555) 123-4567"))
	assert.True(t, ValidPhone("5551234567"))
	assert.False(t, ValidPhone("555-123-456"), "nine digits must fail")
	assert.False(t, ValidPhone("+1 555 123 4567"), "eleven digits must fail")
	assert.False(t, ValidPhone(""))
}
