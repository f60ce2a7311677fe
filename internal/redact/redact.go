// Package redact strips credentials from connection strings before they
// reach logs or API responses.
package redact

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)
	// userinfoPattern matches scheme://user:secret@ when net/url cannot
	// parse the whole string, e.g. multi-host MongoDB URLs.
	userinfoPattern = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9+.-]*://[^:/@\s]*):[^@\s]*@`)
)

// URL removes the password from a connection string, keeping the user name.
func URL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		if userinfoPattern.MatchString(raw) {
			return userinfoPattern.ReplaceAllString(raw, "$1@")
		}
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// Error returns err's message with every secret replaced by its redacted
// form and any password=... pairs masked.
func Error(err error, secrets ...string) string {
	if err == nil {
		return ""
	}
	return Message(err.Error(), secrets...)
}

// Message is Error for a plain string.
func Message(msg string, secrets ...string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := URL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	msg = userinfoPattern.ReplaceAllString(msg, "$1@")
	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
