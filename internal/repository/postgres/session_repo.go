package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	"github.com/yourusername/classroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
)

// SessionRepo реализует repository.SessionRepository
type SessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo создает новый репозиторий сессий
func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create создает новую сессию
func (r *SessionRepo) Create(session *entity.ClassSession) error {
	if err := r.db.Create(session).Error; err != nil {
		if isUniqueViolation(err) {
			// Коллизия UUID кода сессии - практически невозможна, но классифицируем
			return fmt.Errorf("%w: session code collision", apperrors.ErrPersistence)
		}
		return err
	}
	return nil
}

// GetByID возвращает сессию по ID
func (r *SessionRepo) GetByID(id uint) (*entity.ClassSession, error) {
	var session entity.ClassSession
	err := r.db.First(&session, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetActiveByCode возвращает сессию по коду подключения, только если она активна.
// Завершённая сессия по своему коду не находится: код умирает вместе с сессией.
func (r *SessionRepo) GetActiveByCode(code string) (*entity.ClassSession, error) {
	var session entity.ClassSession
	err := r.db.Where("session_code = ? AND is_active = ?", code, true).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// ListByPresenter возвращает сессии презентатора, свежие первыми
func (r *SessionRepo) ListByPresenter(presenterID uint) ([]entity.ClassSession, error) {
	var sessions []entity.ClassSession
	err := r.db.Where("presenter_id = ?", presenterID).Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

// AddMember идемпотентно добавляет студента в сессию.
// ON CONFLICT DO NOTHING: две гонящиеся вкладки одного студента дают одну строку
// и оба запроса завершаются успехом.
func (r *SessionRepo) AddMember(sessionID, userID uint) error {
	member := entity.SessionMember{
		ClassSessionID: sessionID,
		UserID:         userID,
		JoinedAt:       time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
}

// IsMember проверяет, присоединялся ли студент к сессии
func (r *SessionRepo) IsMember(sessionID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.SessionMember{}).
		Where("class_session_id = ? AND user_id = ?", sessionID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListMembers возвращает участников сессии в порядке присоединения.
// Порядок детерминирован: joined_at, затем user_id для одновременных вставок.
func (r *SessionRepo) ListMembers(sessionID uint) ([]entity.User, error) {
	var users []entity.User
	err := r.db.
		Joins("JOIN session_members sm ON sm.user_id = users.id").
		Where("sm.class_session_id = ?", sessionID).
		Order("sm.joined_at, sm.user_id").
		Find(&users).Error
	return users, err
}

// CountMembers возвращает количество присоединившихся студентов
func (r *SessionRepo) CountMembers(sessionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.SessionMember{}).
		Where("class_session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

// ActivateQuestion атомарно переводит слот активного вопроса в open(questionID).
// Условие в WHERE повторяет правило машины состояний: активация легальна,
// если никакой вопрос не открыт либо открыт тот же самый вопрос.
// RowsAffected == 0 классифицируется повторным чтением строки.
func (r *SessionRepo) ActivateQuestion(sessionID, questionID uint) error {
	result := r.db.Model(&entity.ClassSession{}).
		Where("id = ? AND is_active = ?", sessionID, true).
		Where("active_question_status IS DISTINCT FROM ? OR active_question_id = ?",
			entity.QuestionStatusOpen, questionID).
		Updates(map[string]interface{}{
			"active_question_id":     questionID,
			"active_question_status": entity.QuestionStatusOpen,
		})

	if result.Error != nil {
		return fmt.Errorf("activate question #%d for session #%d failed: %w", questionID, sessionID, result.Error)
	}

	if result.RowsAffected == 0 {
		return r.classifyActivateFailure(sessionID)
	}

	return nil
}

func (r *SessionRepo) classifyActivateFailure(sessionID uint) error {
	session, err := r.GetByID(sessionID)
	if err != nil {
		return err
	}
	if !session.IsActive {
		return fmt.Errorf("%w: session #%d", repository.ErrSessionEnded, sessionID)
	}
	if aq, ok := session.ActiveQuestion(); ok && aq.IsOpen() {
		return fmt.Errorf("%w: question #%d", repository.ErrAnotherQuestionOpen, aq.QuestionID)
	}
	// Слот уже свободен - конкурирующий запрос успел раньше; пробуем осмысленную ошибку
	return fmt.Errorf("%w: session #%d", repository.ErrAnotherQuestionOpen, sessionID)
}

// CloseQuestion атомарно переводит open(questionID) -> closed(questionID).
// Ссылка на вопрос сохраняется - для отчётности слот назад в none не возвращается.
func (r *SessionRepo) CloseQuestion(sessionID, questionID uint) error {
	result := r.db.Model(&entity.ClassSession{}).
		Where("id = ? AND is_active = ? AND active_question_id = ? AND active_question_status = ?",
			sessionID, true, questionID, entity.QuestionStatusOpen).
		Update("active_question_status", entity.QuestionStatusClosed)

	if result.Error != nil {
		return fmt.Errorf("close question #%d for session #%d failed: %w", questionID, sessionID, result.Error)
	}

	if result.RowsAffected == 0 {
		return r.classifyCloseFailure(sessionID, questionID)
	}

	return nil
}

func (r *SessionRepo) classifyCloseFailure(sessionID, questionID uint) error {
	session, err := r.GetByID(sessionID)
	if err != nil {
		return err
	}
	if !session.IsActive {
		return fmt.Errorf("%w: session #%d", repository.ErrSessionEnded, sessionID)
	}
	aq, ok := session.ActiveQuestion()
	if !ok || aq.QuestionID != questionID {
		return fmt.Errorf("%w: question #%d", repository.ErrQuestionMismatch, questionID)
	}
	return fmt.Errorf("%w: question #%d", repository.ErrQuestionAlreadyClosed, questionID)
}

// End необратимо деактивирует сессию. Открытый вопрос закрывается тем же
// UPDATE'ом: завершение никогда не оставляет открытый вопрос позади.
func (r *SessionRepo) End(sessionID uint) error {
	result := r.db.Exec(`
		UPDATE class_sessions
		SET is_active = false,
		    active_question_status = CASE
		        WHEN active_question_status = ? THEN ?
		        ELSE active_question_status
		    END,
		    updated_at = ?
		WHERE id = ? AND is_active = true`,
		entity.QuestionStatusOpen, entity.QuestionStatusClosed, time.Now(), sessionID)

	if result.Error != nil {
		return fmt.Errorf("end session #%d failed: %w", sessionID, result.Error)
	}

	if result.RowsAffected == 0 {
		if _, err := r.GetByID(sessionID); err != nil {
			return err
		}
		return fmt.Errorf("%w: session #%d", repository.ErrSessionEnded, sessionID)
	}

	return nil
}
