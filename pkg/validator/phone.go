package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// AngolaCountryCode is prefixed to bare 9-digit national mobile numbers
const AngolaCountryCode = "244"

var (
	// ErrEmptyPhone indicates phone number has no digits at all
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidLength indicates the digit count is outside 9..15
	ErrInvalidLength = errors.New("phone number must have between 9 and 15 digits")
)

// nonDigits matches every character that is not 0-9
var nonDigits = regexp.MustCompile(`\D`)

// PhoneNormalizer canonicalizes phone numbers so that formatting variants of
// the same number compare equal
type PhoneNormalizer struct{}

// NewPhoneNormalizer creates a new phone normalizer instance
func NewPhoneNormalizer() *PhoneNormalizer {
	return &PhoneNormalizer{}
}

// Sanitize removes all non-digit characters from phone number
func (n *PhoneNormalizer) Sanitize(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// Normalize returns the canonical digit string for phone.
// A 9-digit number starting with 9 gets the 244 country code; anything else
// is returned as its digits only. Never fails.
//
//	"923 000 111"      -> "244923000111"
//	"+244 923-000-111" -> "244923000111"
//	"0771234567"       -> "0771234567"
func (n *PhoneNormalizer) Normalize(phone string) string {
	cleaned := n.Sanitize(phone)
	if len(cleaned) == 9 && strings.HasPrefix(cleaned, "9") && !strings.HasPrefix(cleaned, AngolaCountryCode) {
		return AngolaCountryCode + cleaned
	}
	return cleaned
}

// NormalizeOptional normalizes a nullable phone, mapping blank input to nil
func (n *PhoneNormalizer) NormalizeOptional(phone *string) *string {
	if phone == nil {
		return nil
	}
	normalized := n.Normalize(*phone)
	if normalized == "" {
		return nil
	}
	return &normalized
}

// Check normalizes phone and rejects values that cannot identify anyone
func (n *PhoneNormalizer) Check(phone string) (string, error) {
	normalized := n.Normalize(phone)
	if normalized == "" {
		return "", ErrEmptyPhone
	}
	if len(normalized) < 9 || len(normalized) > 15 {
		return "", ErrInvalidLength
	}
	return normalized, nil
}

// Format formats an Angolan mobile number for the printed ticket: +244 9XX XXX XXX.
// Other numbers are returned normalized.
func (n *PhoneNormalizer) Format(phone string) string {
	normalized := n.Normalize(phone)
	if len(normalized) != 12 || !strings.HasPrefix(normalized, AngolaCountryCode) {
		return normalized
	}
	return fmt.Sprintf("+%s %s %s %s",
		normalized[0:3],  // 244
		normalized[3:6],  // 9XX
		normalized[6:9],  // XXX
		normalized[9:12], // XXX
	)
}
