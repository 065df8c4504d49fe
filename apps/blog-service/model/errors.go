package model

import "errors"

// 业务错误，handler层据此映射HTTP状态码
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("duplicate")
)
