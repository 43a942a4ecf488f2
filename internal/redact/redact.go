// Package redact scrubs sensitive information from strings before they are
// logged. The patterns cover what this API can realistically leak through an
// error message: database connection strings, passwords and secrets, bearer
// tokens, email addresses, server paths and hosts, and the value portions of
// SQL statements surfaced by the store layer.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
	RedactedFileErrorPlaceholder  = "[REDACTED_FILE_ERROR]"
	RedactedSQLValuesPlaceholder  = "[SQL_VALUES_REDACTED]"
	RedactedSQLWherePlaceholder   = "[SQL_WHERE_REDACTED]"
)

// rule rewrites one class of sensitive content. Replacement may reference
// capture groups.
type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules apply in order. SQL statements go first so quoted values, emails and
// IDs embedded in a query are swallowed whole; the connection-string rule
// runs before the key rule so a URL password is not half-matched as a
// secret; the email rule runs before the host rule so an address is not
// eaten domain-first.
var rules = []rule{
	// SQL statements: keep the shape, drop the values.
	{
		regexp.MustCompile(`(?i)\bSELECT\b.*?\bFROM\b.*`),
		"SELECT FROM... " + RedactedSQLValuesPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(INSERT INTO\s+\S+\s*(?:\([^)]*\)\s*)?VALUES)\b.*`),
		"$1 " + RedactedSQLValuesPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(UPDATE\s+\S+\s+SET)\b.*`),
		"$1 " + RedactedSQLValuesPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(DELETE FROM\s+\S+)\s+WHERE\b.*`),
		"$1 " + RedactedSQLWherePlaceholder,
	},

	// Connection strings: scheme through the credentials and trailing @.
	{
		regexp.MustCompile(`(?i)(postgres|postgresql|mysql|db|database|connection)://[^@\s]+@`),
		RedactedCredentialPlaceholder,
	},

	// Passwords and generic secrets in key=value or key: value form.
	{
		regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`),
		RedactedCredentialPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)(api[_-]?key|token|secret|key|access|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		RedactedKeyPlaceholder,
	},

	// Bearer tokens: the standard three-part base64url JWT shape.
	{
		regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
		RedactedJWTPlaceholder,
	},

	// Server filesystem paths (two or more segments).
	{
		regexp.MustCompile(`(/[\w.-]+){2,}`),
		RedactedPathPlaceholder,
	},

	// User email addresses.
	{
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`),
		RedactedEmailPlaceholder,
	},

	// Internal hostnames, with optional port.
	{
		regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`),
		RedactedHostPlaceholder,
	},

	// Filesystem error phrasing that names what was being opened.
	{
		regexp.MustCompile(`(?i)no such file|file not found|can't open|cannot open|file error`),
		RedactedFileErrorPlaceholder,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
