// Package canonicalize turns user supplied phone numbers into the canonical forms stored and displayed.
package canonicalize

import (
	"fmt"
	"strings"

	"github.com/malonaz/libphonenumber/go/phonenumber"
)

const (
	RegionCodeUS = "US"

	PhoneNumberFormatInternational = phonenumber.International
)

// Canonicalizer canonicalizes valid phone numbers with an engine.
type Canonicalizer struct {
	engine *phonenumber.Engine
}

// New returns a canonicalizer backed by engine.
func New(engine *phonenumber.Engine) *Canonicalizer {
	return &Canonicalizer{engine: engine}
}

// PhoneNumber returns the E.164 form of phoneNumber, read against fallbackRegionCode when it has no country code.
func (c *Canonicalizer) PhoneNumber(phoneNumber, fallbackRegionCode string) (string, error) {
	return c.FormatPhoneNumber(phoneNumber, fallbackRegionCode, phonenumber.E164)
}

// FormatPhoneNumber renders phoneNumber in format. Invalid numbers are rejected.
func (c *Canonicalizer) FormatPhoneNumber(phoneNumber, fallbackRegionCode string, format phonenumber.Format) (string, error) {
	parsedPhoneNumber, err := c.parseAndValidatePhoneNumber(phoneNumber, fallbackRegionCode)
	if err != nil {
		return "", err
	}
	return c.engine.Format(parsedPhoneNumber, format), nil
}

func (c *Canonicalizer) FormatPhoneNumberNational(phoneNumber, fallbackRegionCode string) (string, error) {
	return c.FormatPhoneNumber(phoneNumber, fallbackRegionCode, phonenumber.National)
}

func (c *Canonicalizer) parseAndValidatePhoneNumber(phoneNumber, fallbackRegionCode string) (*phonenumber.PhoneNumber, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return nil, fmt.Errorf("phone number cannot be empty")
	}

	parsedPhoneNumber, err := c.engine.Parse(phoneNumber, strings.ToUpper(fallbackRegionCode))
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number %q: %w", phoneNumber, err)
	}

	if !c.engine.IsValidNumber(parsedPhoneNumber) {
		return nil, fmt.Errorf("phone number %q is not valid", phoneNumber)
	}

	return parsedPhoneNumber, nil
}

func getDefault() *Canonicalizer {
	return New(phonenumber.Default())
}

// PhoneNumber canonicalizes with the default engine.
func PhoneNumber(phoneNumber, fallbackRegionCode string) (string, error) {
	return getDefault().PhoneNumber(phoneNumber, fallbackRegionCode)
}

// FormatPhoneNumber formats with the default engine.
func FormatPhoneNumber(phoneNumber string, fallbackRegionCode string, format phonenumber.Format) (string, error) {
	return getDefault().FormatPhoneNumber(phoneNumber, fallbackRegionCode, format)
}

// FormatPhoneNumberNational formats nationally with the default engine.
func FormatPhoneNumberNational(phoneNumber, fallbackRegionCode string) (string, error) {
	return getDefault().FormatPhoneNumberNational(phoneNumber, fallbackRegionCode)
}
