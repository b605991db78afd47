package repository

import (
	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByGoogleID(googleID string) (*entity.User, error)

	// UpsertByGoogleID атомарно создаёт пользователя либо обновляет email/name
	// существующей записи с тем же google_id (ON CONFLICT DO UPDATE).
	// Возвращает актуальную строку из базы.
	UpsertByGoogleID(user *entity.User) (*entity.User, error)
}
