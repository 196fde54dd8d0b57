package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Regions tried in order when a number has no country prefix. Tebuto's market
// is the DACH region.
var supportedRegions = []string{
	"DE",
	"AT",
	"CH",
}

// NormalizePhone formats a phone number as E.164. Numbers that cannot be
// parsed for any supported region are returned trimmed, so validation can
// reject them with the original input intact.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsedNumber, err := phonenumbers.Parse(phone, region)
		if err == nil && phonenumbers.IsValidNumber(parsedNumber) {
			return phonenumbers.Format(parsedNumber, phonenumbers.E164)
		}
	}
	return phone
}
