package service

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrEmptyText = errors.New("text required")
	ErrNotAuthor = errors.New("not the author")
)
