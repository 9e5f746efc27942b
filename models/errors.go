package models

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionInvalid     = errors.New("session expired or invalid")
	ErrForbidden          = errors.New("forbidden")
	ErrCategoryAlreadySet = errors.New("category already set")
)
