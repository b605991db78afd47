package repository

import (
	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с банком вопросов.
// Банк заливается сидом миграций, поэтому интерфейс только читающий.
type QuestionRepository interface {
	GetByID(id uint) (*entity.Question, error)
	GetByRefID(refID string) (*entity.Question, error)
	// List возвращает все вопросы банка в стабильном порядке (по id)
	List() ([]entity.Question, error)
}
