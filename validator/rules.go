package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PasswordMinLength is the shortest accepted password
const PasswordMinLength = 8

// PasswordSymbols lists the symbols that satisfy the symbol rule
const PasswordSymbols = "!@#$%^&*"

var mailboxPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsMailbox reports whether s looks like local-part@domain.tld
func IsMailbox(s string) bool {
	return mailboxPattern.MatchString(s)
}

// PasswordViolations returns the password rules pw fails, in a fixed order.
func PasswordViolations(pw string) []string {
	var upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}

	var out []string
	if len([]rune(pw)) < PasswordMinLength {
		out = append(out, fmt.Sprintf("at least %d characters", PasswordMinLength))
	}
	if !upper {
		out = append(out, "an uppercase letter")
	}
	if !digit {
		out = append(out, "a digit")
	}
	if !symbol {
		out = append(out, "a symbol ("+PasswordSymbols+")")
	}
	return out
}

func passwordMessage(field string, violations []string) string {
	return fmt.Sprintf("The field '%s' must contain %s.", field, strings.Join(violations, ", "))
}

func validateMailbox(fl validator.FieldLevel) bool {
	return IsMailbox(fl.Field().String())
}

func validatePassword(fl validator.FieldLevel) bool {
	return len(PasswordViolations(fl.Field().String())) == 0
}
