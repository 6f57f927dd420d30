package contact

import (
	"errors"

	"github.com/ttacon/libphonenumber"
)

// LibPhoneNormalizer parses numbers with libphonenumber, assuming
// DefaultRegion when the number carries no country code.
type LibPhoneNormalizer struct {
	DefaultRegion string
}

// NewPhoneNormalizer returns a normalizer for region (e.g. "US")
func NewPhoneNormalizer(region string) *LibPhoneNormalizer {
	if region == "" {
		region = "US"
	}
	return &LibPhoneNormalizer{DefaultRegion: region}
}

// Normalize returns raw formatted as E.164
func (n *LibPhoneNormalizer) Normalize(raw string) (string, error) {
	num, err := libphonenumber.Parse(raw, n.DefaultRegion)
	if err != nil {
		return "", err
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", errors.New("not a valid number")
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}
