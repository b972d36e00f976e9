package validator

import (
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

// ToMap keeps the first message reported for each field.
func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		if _, exists := result[err.Field]; !exists {
			result[err.Field] = err.Message
		}
	}
	return result
}

// Add appends a field error.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns nil when no field error was collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// E.164: '+' then 2 to 15 digits, no leading zero.
var e164Regex = regexp.MustCompile(`^\+[1-9][0-9]{1,14}$`)

func IsValidE164(phone string) bool {
	return e164Regex.MatchString(phone)
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// Registration code: 3-50 chars, A-Z, a-z, 0-9, ., _, -
var registrationCodeRegex = regexp.MustCompile(`^[A-Za-z0-9._-]{3,50}$`)

func IsValidRegistrationCode(code string) bool {
	return registrationCodeRegex.MatchString(code)
}
