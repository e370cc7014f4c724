// Package utils provides utility functions for the application.
package utils

import "strings"

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// SubdomainFromEmail derives a subdomain candidate from an email's local part.
// The result is lowercased and truncated to the DNS label limit; characters
// outside [a-z0-9-] are dropped.
func SubdomainFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	local = strings.ToLower(local)

	var b strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}

	s := strings.Trim(b.String(), "-")
	if len(s) > SubdomainMaxLength {
		s = s[:SubdomainMaxLength]
	}
	return s
}
