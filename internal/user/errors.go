package user

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrFieldsRequired     = errors.New("name, email and password are required")
	ErrPasswordTooShort   = errors.New("password must have at least 6 characters")
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
