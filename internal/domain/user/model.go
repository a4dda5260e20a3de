package user

import "time"

// User аккаунт семьи
type User struct {
	ID        int
	Email     string
	FamilyID  int
	Password  string // хэш
	CreatedAt time.Time
}

type RegisterRequest struct {
	Email      string `json:"email" format:"email" maxLength:"254"`
	Password   string `json:"password" minLength:"8" maxLength:"72"`
	FamilyName string `json:"family_name" maxLength:"50"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	ID     int    `json:"user_id,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type LoginResponse struct {
	Token  string `json:"token,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
