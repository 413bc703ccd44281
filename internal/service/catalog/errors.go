package catalog

import "errors"

var (
	ErrNotFound     = errors.New("record not found")
	ErrNameTaken    = errors.New("name already exists")
	ErrBadReference = errors.New("referenced record does not exist")
)
