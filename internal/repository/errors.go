package repository

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrSeatTaken        = errors.New("seat already taken")
	ErrInvalidReference = errors.New("referenced record does not exist")
)
