package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Error is a pre-flight input validation failure, raised before any
// request is sent.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return e.Reason }

// Errorf builds an Error from a format string.
func Errorf(format string, args ...any) error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// Input length limits to prevent resource exhaustion
const (
	MaxNameLength    = 255
	MaxEmailLength   = 320     // RFC 5321: 64 chars (local) + 1 (@) + 255 (domain) = 320
	MaxPhoneLength   = 20      // International E.164 format
	MaxMessageLength = 100000  // 100KB for message content
	MaxJSONPayload   = 1048576 // 1MB for JSON payloads
	MaxURLLength     = 2048    // Standard browser URL limit
)

// ValidateName validates a contact name length
func ValidateName(name string) error {
	if name == "" {
		return nil // Empty names are allowed (field is optional in some contexts)
	}

	length := utf8.RuneCountInString(name)
	if length > MaxNameLength {
		return Errorf("name exceeds maximum length of %d characters (got %d)", MaxNameLength, length)
	}

	return nil
}

// ValidateEmail validates an email address length
func ValidateEmail(email string) error {
	if email == "" {
		return nil // Empty emails are allowed (field is optional in some contexts)
	}

	length := utf8.RuneCountInString(email)
	if length > MaxEmailLength {
		return Errorf("email exceeds maximum length of %d characters (got %d)", MaxEmailLength, length)
	}

	return nil
}

// ValidatePhone validates a phone number length
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil // Empty phone numbers are allowed (field is optional in some contexts)
	}

	length := utf8.RuneCountInString(phone)
	if length > MaxPhoneLength {
		return Errorf("phone number exceeds maximum length of %d characters (got %d)", MaxPhoneLength, length)
	}

	return nil
}

// ValidateMessageContent validates message content length
// Note: Empty content is allowed (e.g., attachment-only messages).
// Callers should check if content is required before calling this function.
func ValidateMessageContent(content string) error {
	if content == "" {
		return nil // Empty content is allowed for attachment-only messages
	}

	// Use byte length for message content as it's transmitted as UTF-8
	length := len(content)
	if length > MaxMessageLength {
		return Errorf("message content exceeds maximum size of %d bytes (got %d)", MaxMessageLength, length)
	}

	return nil
}

// ValidateJSONPayload validates JSON payload size
func ValidateJSONPayload(payload string) error {
	if payload == "" {
		return Errorf("JSON payload cannot be empty")
	}

	// Use byte length for JSON payloads as they're transmitted as UTF-8
	length := len(payload)
	if length > MaxJSONPayload {
		return Errorf("JSON payload exceeds maximum size of %d bytes (got %d)", MaxJSONPayload, length)
	}

	return nil
}

// ValidateEmailFormat validates the format of an email address.
// Returns nil for empty emails (optional field).
func ValidateEmailFormat(email string) error {
	if email == "" {
		return nil // Optional field
	}
	_, err := mail.ParseAddress(email)
	if err != nil {
		return Errorf("invalid email format: %v", err)
	}
	return nil
}

// ValidatePhoneFormat validates phone number format (basic validation).
// Returns nil for empty phones (optional field).
// Allows digits, spaces, dashes, parentheses, and leading +.
func ValidatePhoneFormat(phone string) error {
	if phone == "" {
		return nil
	}
	// Basic validation: must contain at least some digits
	// and only allowed characters
	// Pattern: optional +, then digits with optional separators
	for i, r := range phone {
		if r == '+' && i == 0 {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		if r == ' ' || r == '-' || r == '(' || r == ')' {
			continue
		}
		return Errorf("invalid phone format: contains invalid character '%c'", r)
	}
	return nil
}

// ValidateUUID validates a record UUID in the 8-4-4-4-12 hex form every
// API record key uses. Comparison is case-insensitive.
func ValidateUUID(s string, fieldName string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return Errorf("%s is required", fieldName)
	}
	if len(s) != 36 {
		return Errorf("invalid %s: expected a 36-character UUID, got %d characters", fieldName, len(s))
	}
	for i, r := range s {
		switch i {
		case 8, 13, 18, 23:
			if r != '-' {
				return Errorf("invalid %s: malformed UUID", fieldName)
			}
		default:
			isHex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
			if !isHex {
				return Errorf("invalid %s: malformed UUID", fieldName)
			}
		}
	}
	return nil
}
