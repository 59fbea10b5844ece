package db

import "errors"

var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("access denied by row policy")
)
