package repository

import (
	"time"
)

// CacheRepository определяет методы кеша состояния активного вопроса.
// Кеш советующий: промах или ошибка всегда компенсируются чтением из базы.
type CacheRepository interface {
	// SetJSON сохраняет структуру JSON с TTL
	SetJSON(key string, value interface{}, expiration time.Duration) error
	// GetJSON читает структуру JSON; промах - ErrNotFound
	GetJSON(key string, dest interface{}) error
	// Delete инвалидирует запись, которую не удалось перезаписать
	Delete(key string) error
}
