package storage

import (
	"regexp"
	"strings"
)

// Slot is a named key/value location in a persistence medium.
// Get reports ok=false when the key holds nothing.
type Slot interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Remove(key string) error
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SanitizeKey converts a slot key to a safe file name stem.
// "__storage_test__" -> "storage-test"
func SanitizeKey(key string) string {
	result := unsafeKeyChars.ReplaceAllString(key, "-")
	result = strings.Trim(result, "-")
	if result == "" {
		return "slot"
	}
	return result
}
