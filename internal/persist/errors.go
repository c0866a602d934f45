package persist

import (
	"errors"
	"fmt"
)

// Standard errors returned by the persist package.
var (
	// ErrNotFound indicates no record is stored under the key.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidKey indicates the key cannot name a record.
	ErrInvalidKey = errors.New("invalid key")

	// ErrClosed indicates the autosaver has been closed.
	ErrClosed = errors.New("autosaver closed")
)

// KeyError represents an error associated with a record key.
type KeyError struct {
	Op  string // load, save or delete
	Key string
	Err error
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *KeyError) Unwrap() error {
	return e.Err
}

// ValidKey reports whether key can name a record. Keys are non-empty, at
// most 128 bytes, use letters, digits, '.', '_' and '-', and do not start
// with a dot.
func ValidKey(key string) bool {
	if key == "" || len(key) > 128 || key[0] == '.' {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}

func checkKey(op, key string) error {
	if !ValidKey(key) {
		return &KeyError{Op: op, Key: key, Err: ErrInvalidKey}
	}
	return nil
}
