// Package repository holds what the store implementations share.
package repository

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("duplicate record")
	ErrTokenNotFound = errors.New("token not found")
)
