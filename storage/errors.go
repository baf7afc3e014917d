package storage

import "errors"

var ErrWriteFailed = errors.New("storage: write failed")
