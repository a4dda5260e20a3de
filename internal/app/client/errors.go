package client

import "errors"

var (
	// ErrUnavailable сервер недоступен или ответил 5xx
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized токен отклонен или истек, нужен повторный вход
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRejected сервер вернул status "Error"
	ErrRejected = errors.New("request rejected")
)
