package models

import "errors"

// ErrNotFound indicates the requested entity was not found
var ErrNotFound = errors.New("not found")
