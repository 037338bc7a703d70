package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateKeyErr reports whether err is a unique constraint violation
// across the supported dialects.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key value") { // postgres
		return true
	}
	if strings.Contains(msg, "Error 1062") { // mysql
		return true
	}
	if strings.Contains(msg, "UNIQUE constraint failed") { // sqlite
		return true
	}
	return false
}
