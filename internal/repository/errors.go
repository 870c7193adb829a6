package repository

import "errors"

// ErrDuplicateKey 违反唯一索引
var ErrDuplicateKey = errors.New("duplicate key")
