// internal/ingest/validate.go
package ingest

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// NormalizePhone converts a raw phone value to E.164. Separators are
// stripped; a bare national-format number of ten or more digits gets a
// plus prefixed. Anything else is rejected.
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", fmt.Errorf("phone is empty")
	}

	digits := cleaned
	if strings.HasPrefix(cleaned, "+") {
		digits = cleaned[1:]
	} else if allDigits(cleaned) && len(cleaned) >= 10 {
		cleaned = "+" + cleaned
	} else {
		return "", fmt.Errorf("%q is not an international number", raw)
	}

	if !allDigits(digits) {
		return "", fmt.Errorf("%q contains non-digit characters", raw)
	}
	if len(digits) < 8 || len(digits) > 15 {
		return "", fmt.Errorf("%q has %d digits, expected 8 to 15", raw, len(digits))
	}
	return cleaned, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidURL accepts absolute http or https URLs with a dotted host.
func ValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.Contains(u.Host, ".")
}

// ExtractDomain returns the host part of a URL, or "" when the URL is
// not usable.
func ExtractDomain(raw string) string {
	if !ValidURL(raw) {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return u.Host
}

// SanitizeName trims a business name, collapses runs of whitespace and
// drops control characters that would garble logs and CSV exports.
func SanitizeName(name string) string {
	collapsed := strings.Join(strings.Fields(name), " ")
	var b strings.Builder
	for _, r := range collapsed {
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
