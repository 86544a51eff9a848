package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateTag      = errors.New("tag with this title already exists")
	ErrDuplicateUsername = errors.New("user with this username already exists")
	ErrAuthorNotStaff    = errors.New("post author must be a staff user")
	ErrInvalidReference  = errors.New("referenced record does not exist")
)

// translate maps GORM errors onto the package's sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return err
}
