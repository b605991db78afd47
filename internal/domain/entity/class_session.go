package entity

import (
	"time"
)

// Статусы активного вопроса сессии
const (
	QuestionStatusOpen   = "open"
	QuestionStatusClosed = "closed"
)

// ActiveQuestion - тегированное состояние слота активного вопроса.
// Нулевое значение (ок=false из ClassSession.ActiveQuestion) означает "none":
// в сессии ещё ни один вопрос не активировался.
type ActiveQuestion struct {
	QuestionID uint
	Status     string // "open" или "closed"
}

// IsOpen проверяет, открыт ли вопрос для ответов
func (a ActiveQuestion) IsOpen() bool {
	return a.Status == QuestionStatusOpen
}

// ClassSession представляет одно занятие: презентатор, код подключения,
// присоединившиеся студенты и слот активного вопроса.
type ClassSession struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	SessionCode string `gorm:"size:36;not null;uniqueIndex" json:"session_code"` // неугадываемый UUID для подключения
	QRCodeURL   string `gorm:"size:255;not null;default:''" json:"qr_code_url"`
	PresenterID uint   `gorm:"not null;index" json:"presenter_id"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`

	// Слот активного вопроса. Оба поля либо NULL (вопрос ещё не активировался),
	// либо заполнены вместе; статус имеет смысл только при заданном вопросе.
	// Ссылка на вопрос сохраняется после закрытия - для отчётности.
	ActiveQuestionID     *uint   `gorm:"index" json:"active_question_id,omitempty"`
	ActiveQuestionStatus *string `gorm:"size:20" json:"active_question_status,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (ClassSession) TableName() string {
	return "class_sessions"
}

// ActiveQuestion возвращает тегированное состояние слота.
// ok=false соответствует состоянию "none".
func (s *ClassSession) ActiveQuestion() (ActiveQuestion, bool) {
	if s.ActiveQuestionID == nil || s.ActiveQuestionStatus == nil {
		return ActiveQuestion{}, false
	}
	return ActiveQuestion{
		QuestionID: *s.ActiveQuestionID,
		Status:     *s.ActiveQuestionStatus,
	}, true
}

// HasOpenQuestion проверяет, открыт ли сейчас какой-либо вопрос
func (s *ClassSession) HasOpenQuestion() bool {
	aq, ok := s.ActiveQuestion()
	return ok && aq.IsOpen()
}

// IsQuestionOpen проверяет, открыт ли для ответов именно этот вопрос
func (s *ClassSession) IsQuestionOpen(questionID uint) bool {
	aq, ok := s.ActiveQuestion()
	return ok && aq.IsOpen() && aq.QuestionID == questionID
}

// CanActivate проверяет легальность активации вопроса:
// разрешено, если ни один вопрос не открыт, либо открыт этот же вопрос
// (повторная активация - no-op). Открытый другой вопрос - конфликт.
func (s *ClassSession) CanActivate(questionID uint) bool {
	aq, ok := s.ActiveQuestion()
	if !ok || !aq.IsOpen() {
		return true
	}
	return aq.QuestionID == questionID
}
