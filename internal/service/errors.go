package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmptySigningKey    = errors.New("signing key is empty")
	ErrCardNotFound       = errors.New("card not found")
	ErrNoCards            = errors.New("no cards available")
)
