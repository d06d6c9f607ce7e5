package api

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// WireDateTimeLayout is the datetime format the API expects:
// "YYYY-MM-DD HH:mm:ss" with no timezone. Values are interpreted in the
// account's local timezone.
const WireDateTimeLayout = "2006-01-02 15:04:05"

var wireDateTimeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)

// Datetime normalization failures, matched with errors.Is.
var (
	ErrInvalidDateTime     = errors.New("invalid datetime value")
	ErrInvalidFormat       = errors.New("invalid datetime format")
	ErrUnsupportedDateType = errors.New("unsupported datetime type")
)

// inputLayouts are tried in order when a string is not already in wire
// format. Layouts carrying an offset keep the civil fields as written;
// the offset itself is discarded on output.
var inputLayouts = []string{
	time.RFC3339, // also accepts fractional seconds
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ToWireDateTime converts a datetime of various shapes to the wire
// format. The conversion preserves the civil date and time fields of the
// input and discards any UTC offset: "2025-03-08T14:30:00+10:00" becomes
// "2025-03-08 14:30:00". Values already in wire format pass through
// unchanged, so the function is idempotent. Empty strings map to "".
//
// Supported inputs: strings (wire format or ISO 8601), time.Time, and
// integer or float Unix seconds (rendered in UTC).
func ToWireDateTime(v any) (string, error) {
	switch value := v.(type) {
	case nil:
		return "", nil
	case string:
		if value == "" {
			return "", nil
		}
		if wireDateTimeRe.MatchString(value) {
			return value, nil
		}
		for _, layout := range inputLayouts {
			// Parse keeps the offset's fictitious location, so Format
			// emits the civil fields exactly as written.
			if t, err := time.Parse(layout, value); err == nil {
				return t.Format(WireDateTimeLayout), nil
			}
		}
		return "", fmt.Errorf("%w: %q is not ISO 8601 (e.g. 2025-11-27T09:00:00) or %q", ErrInvalidFormat, value, WireDateTimeLayout)
	case time.Time:
		if value.IsZero() {
			return "", fmt.Errorf("%w: zero time", ErrInvalidDateTime)
		}
		return value.Format(WireDateTimeLayout), nil
	case int:
		return time.Unix(int64(value), 0).UTC().Format(WireDateTimeLayout), nil
	case int64:
		return time.Unix(value, 0).UTC().Format(WireDateTimeLayout), nil
	case float64:
		return time.Unix(int64(value), 0).UTC().Format(WireDateTimeLayout), nil
	default:
		return "", fmt.Errorf("%w: %T (expected string, time.Time or Unix seconds)", ErrUnsupportedDateType, v)
	}
}
