package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Роли пользователей
const (
	RolePresenter = "presenter"
	RoleStudent   = "student"
)

// User представляет пользователя в системе.
// Студенты создаются через Google OAuth (GoogleID заполнен, пароля нет),
// презентаторы регистрируются по email/паролю (GoogleID может быть пустым).
type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	GoogleID *string `gorm:"size:200;uniqueIndex" json:"-"` // sub из Google, NULL для парольных аккаунтов
	Email    string  `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Name     string  `gorm:"size:100;not null" json:"name"`
	Password string  `gorm:"size:100;not null;default:''" json:"-"`
	Role     string  `gorm:"size:20;not null;default:'student'" json:"role"` // "presenter" или "student"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// IsPresenter проверяет, имеет ли пользователь роль презентатора
func (u *User) IsPresenter() bool {
	return u.Role == RolePresenter
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешом
func (u *User) BeforeSave(tx *gorm.DB) error {
	// Хешируем пароль только если он:
	// 1. Не пустой (OAuth-аккаунты живут без пароля)
	// 2. Не является уже bcrypt-хешом (начинается с "$2a$", "$2b$" или "$2y$")
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
