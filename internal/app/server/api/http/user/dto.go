package user

import "gfit/internal/domain/user"

type registerInput struct {
	Body user.RegisterRequest
}

type registerOutput struct {
	Body user.RegisterResponse
}

type loginInput struct {
	Body user.LoginRequest
}

type loginOutput struct {
	Body user.LoginResponse
}
