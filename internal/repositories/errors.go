package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates the requested record does not exist or is not visible.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates the write would violate a uniqueness constraint.
	ErrConflict = errors.New("record conflict")
)

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}
