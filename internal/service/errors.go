package service

import "errors"

var (
	ErrValidation         = errors.New("validation")          // 400
	ErrNotFound           = errors.New("not found")           // 404
	ErrNotAvailable       = errors.New("not available")       // 400
	ErrInsufficientStock  = errors.New("insufficient stock")  // 400
	ErrInvalidQuantity    = errors.New("invalid quantity")    // 400
	ErrEmptyCart          = errors.New("cart is empty")       // 400
	ErrInvalidCredentials = errors.New("invalid credentials") // 401
)
