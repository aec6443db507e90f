package service

import "errors"

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrLocked     = errors.New("app locked") // 423
	ErrEmptyCart  = errors.New("cart is empty")
)
