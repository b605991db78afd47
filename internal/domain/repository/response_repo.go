package repository

import (
	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// ResponseRepository определяет методы для работы с ответами студентов.
// Строки только вставляются; уникальный индекс базы - последняя линия
// обороны от дублей при конкурентной отправке.
type ResponseRepository interface {
	// Create вставляет ответ; нарушение уникальности транслируется
	// в ErrDuplicateResponse.
	Create(response *entity.StudentResponse) error
	Exists(studentID, sessionID, questionID uint) (bool, error)
	// ListBySession возвращает все ответы сессии в порядке отправки
	ListBySession(sessionID uint) ([]entity.StudentResponse, error)
	CountForQuestion(sessionID, questionID uint) (int64, error)
}
