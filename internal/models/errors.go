package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("file not found")
	ErrNoFile        = errors.New("no file uploaded")
	ErrTooLarge      = errors.New("upload too large")
	ErrStreamAborted = errors.New("stream aborted")
)

// RangeError сообщает, что запрошенный диапазон нельзя отдать для объекта размера Size.
type RangeError struct {
	Size int64
	Err  error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range not satisfiable for %d bytes: %v", e.Size, e.Err)
}

func (e *RangeError) Unwrap() error { return e.Err }
