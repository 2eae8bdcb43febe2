// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "US"

// NormalizeE164 parses a phone number and formats it to E.164.
// Numbers without a country code are parsed against the default region.
func NormalizeE164(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("empty phone number")
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return "", fmt.Errorf("parse phone number: %w", err)
	}

	if !phonenumbers.IsValidNumber(number) {
		return "", fmt.Errorf("invalid phone number")
	}

	return phonenumbers.Format(number, phonenumbers.E164), nil
}

// MessagingHandle derives the messaging handle for an E.164 number,
// the digits without the leading plus. Returns "" for anything that is
// not a normalized E.164 value.
func MessagingHandle(e164 string) string {
	if !strings.HasPrefix(e164, "+") {
		return ""
	}
	return strings.TrimPrefix(e164, "+")
}
