package db

import "strings"

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. Covers both the Postgres and sqlite phrasings since
// either driver can back a store; constraintName narrows the match when the
// driver includes it in the message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" && strings.Contains(msg, constraintName) {
		return true
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
