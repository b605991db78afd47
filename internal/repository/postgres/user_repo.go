package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя
func (r *UserRepo) Create(user *entity.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user already exists", apperrors.ErrPersistence)
		}
		return err
	}
	return nil
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByGoogleID возвращает пользователя по идентификатору Google
func (r *UserRepo) GetByGoogleID(googleID string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("google_id = ?", googleID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// googleIDConflict - цель конфликта для upsert'а по google_id.
// Выводится Postgres'ом из idx_users_google_id; индекс обязан быть полным
// (без WHERE-предиката), иначе каждый вызов падает с 42P10.
var googleIDConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "google_id"}},
	DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
}

// UpsertByGoogleID атомарно создаёт либо обновляет пользователя по google_id.
// ON CONFLICT DO UPDATE вместо read-then-write: два конкурентных первых логина
// одного студента дают ровно одну строку.
// Коллизия по email с другим google_id пробивает 23505 по uq_users_email и
// транслируется в ErrPersistence - кейс "обратитесь в поддержку".
func (r *UserRepo) UpsertByGoogleID(user *entity.User) (*entity.User, error) {
	err := r.db.Clauses(googleIDConflict).Create(user).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email already linked to a different account", apperrors.ErrPersistence)
		}
		return nil, err
	}

	// Перечитываем строку: при конфликте gorm не заполняет поля существующей записи
	if user.GoogleID == nil {
		return user, nil
	}
	return r.GetByGoogleID(*user.GoogleID)
}
