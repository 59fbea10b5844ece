package services

import (
	"errors"

	"github.com/terraincognita07/landtrust/internal/db"
)

func isForbidden(err error) bool {
	return errors.Is(err, db.ErrForbidden)
}
