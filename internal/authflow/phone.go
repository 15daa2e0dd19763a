package authflow

import (
	"strings"

	"github.com/example/laundrypro/internal/apperr"
)

// ErrInvalidPhone is returned for input that is neither local nor E.164.
var ErrInvalidPhone = apperr.Validation("Invalid phone number")

// NormalizePhone rewrites a local number (leading 0) or an already prefixed
// number to E.164 using countryCode, e.g. "+84". Spaces and dashes are ignored.
func NormalizePhone(raw, countryCode string) (string, error) {
	p := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '\t' {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	var national string
	switch {
	case strings.HasPrefix(p, countryCode):
		national = p[len(countryCode):]
	case strings.HasPrefix(p, "0"):
		national = p[1:]
	default:
		return "", ErrInvalidPhone
	}

	if national == "" || !allDigits(national) {
		return "", ErrInvalidPhone
	}
	return countryCode + national, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
