package dto

import (
	"time"

	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// UserResponse представляет пользователя в формате для ответа клиенту
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse возвращается после успешного входа или регистрации
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NewUserResponse создает DTO пользователя
func NewUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// NewAuthResponse создает DTO ответа аутентификации
func NewAuthResponse(token string, user *entity.User) AuthResponse {
	return AuthResponse{
		Token: token,
		User:  NewUserResponse(user),
	}
}
