package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	"github.com/yourusername/classroom-api/internal/domain/repository"
)

// ResponseRepo реализует repository.ResponseRepository
type ResponseRepo struct {
	db *gorm.DB
}

// NewResponseRepo создает новый репозиторий ответов студентов
func NewResponseRepo(db *gorm.DB) *ResponseRepo {
	return &ResponseRepo{db: db}
}

// Create вставляет ответ студента.
// Уникальный индекс (student_id, class_session_id, question_id) разрешает
// гонку двух одинаковых отправок: второй писатель получает 23505, который
// транслируется в ErrDuplicateResponse, а не в общий сбой базы.
func (r *ResponseRepo) Create(response *entity.StudentResponse) error {
	if err := r.db.Create(response).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: student #%d question #%d", repository.ErrDuplicateResponse,
				response.StudentID, response.QuestionID)
		}
		return err
	}
	return nil
}

// Exists проверяет, отвечал ли студент на вопрос в рамках сессии
func (r *ResponseRepo) Exists(studentID, sessionID, questionID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.StudentResponse{}).
		Where("student_id = ? AND class_session_id = ? AND question_id = ?",
			studentID, sessionID, questionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListBySession возвращает все ответы сессии в порядке отправки
func (r *ResponseRepo) ListBySession(sessionID uint) ([]entity.StudentResponse, error) {
	var responses []entity.StudentResponse
	err := r.db.Where("class_session_id = ?", sessionID).
		Order("submitted_at, id").
		Find(&responses).Error
	return responses, err
}

// CountForQuestion возвращает количество ответов на вопрос в сессии
func (r *ResponseRepo) CountForQuestion(sessionID, questionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.StudentResponse{}).
		Where("class_session_id = ? AND question_id = ?", sessionID, questionID).
		Count(&count).Error
	return count, err
}
