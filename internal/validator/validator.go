package validator

import "regexp"

var loginRe = regexp.MustCompile(`^[a-zA-Z0-9]{8,}$`)

func IsValidLogin(login string) bool {
	return loginRe.MatchString(login)
}

// IsValidPassword requires at least 8 characters with an upper, a lower,
// a digit and a symbol.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool

	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSymbol
}
