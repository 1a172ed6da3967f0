package repo_errors

import "errors"

var (
	ErrNotFound    = errors.New("record not found")
	ErrStaleStatus = errors.New("record status changed since it was read")
)
