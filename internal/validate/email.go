// Package validate holds input checks shared by several handlers.
package validate

import (
	"net/mail"
	"strings"
)

// Email reports whether s is a bare address of the form local@domain.tld.
// Display names ("Ann <a@b.com>") and dotless domains are rejected.
func Email(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 {
		return false
	}
	domain := s[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return !strings.Contains(domain, "..")
}
