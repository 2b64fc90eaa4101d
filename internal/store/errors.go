package store

import "errors"

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateKey    = errors.New("already exists")
	ErrAlreadyUploaded = errors.New("video already uploaded")
)
