package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	LoginPasswordMinLen    = 6
	RegisterPasswordMinLen = 8
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateLogin checks login credentials, returning every violated rule.
func ValidateLogin(email, password string) []string {
	var errs []string

	if email == "" || password == "" {
		errs = append(errs, "please fill in all fields")
	}
	if email != "" && !ValidEmail(email) {
		errs = append(errs, "please enter a valid email address")
	}
	if password != "" && len(password) < LoginPasswordMinLen {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters long", LoginPasswordMinLen))
	}
	return errs
}

// ValidateRegistration checks new-account fields. Registration requires a
// longer password than login does, matching the remote API's policy.
func ValidateRegistration(name, email, password string) []string {
	var errs []string

	fields := []struct{ name, value string }{
		{"name", name},
		{"email", email},
		{"password", password},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, f.name+" is required")
		}
	}
	if len(errs) > 0 {
		return errs
	}

	if !ValidEmail(email) {
		errs = append(errs, "please enter a valid email address")
	}
	if len(password) < RegisterPasswordMinLen {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters long", RegisterPasswordMinLen))
	}
	return errs
}
