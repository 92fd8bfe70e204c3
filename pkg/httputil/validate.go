package httputil

import (
	"net/mail"
	"strings"
)

func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// MinChars reports whether the trimmed value has at least n characters.
func MinChars(s string, n int) bool {
	return len(strings.TrimSpace(s)) >= n
}
