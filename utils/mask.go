package utils

import "strings"

// MaskEmail partially redacts an email address for display on a listing's
// contact card: the first two characters of the local part are kept (one
// when the local part has two or fewer), followed by "***@domain". The full
// address is only shown on an explicit reveal.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}
	local, domain, found := strings.Cut(email, "@")
	if !found || local == "" {
		return email
	}
	if len(local) <= 2 {
		return local[:1] + "***@" + domain
	}
	return local[:2] + "***@" + domain
}
