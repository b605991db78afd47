package dto

import (
	"time"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	"github.com/yourusername/classroom-api/internal/service"
)

// SessionResponse представляет сессию занятия в формате для ответа клиенту
type SessionResponse struct {
	ID          uint      `json:"id"`
	SessionCode string    `json:"session_code"`
	QRCodeURL   string    `json:"qr_code_url,omitempty"`
	JoinURL     string    `json:"join_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`

	// Слот активного вопроса; status пустой, если вопрос не выбран
	ActiveQuestionID     *uint   `json:"active_question_id,omitempty"`
	ActiveQuestionStatus *string `json:"active_question_status,omitempty"`
}

// SessionListResponse представляет список сессий преподавателя
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Total    int               `json:"total"`
}

// QuestionResponse представляет вопрос банка для преподавателя
// (с правильным ответом)
type QuestionResponse struct {
	ID            uint              `json:"id"`
	RefID         string            `json:"ref_id"`
	Text          string            `json:"text"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
}

// NewSessionResponse создает DTO сессии
func NewSessionResponse(session *entity.ClassSession, joinURL string) SessionResponse {
	return SessionResponse{
		ID:                   session.ID,
		SessionCode:          session.SessionCode,
		QRCodeURL:            session.QRCodeURL,
		JoinURL:              joinURL,
		IsActive:             session.IsActive,
		CreatedAt:            session.CreatedAt,
		ActiveQuestionID:     session.ActiveQuestionID,
		ActiveQuestionStatus: session.ActiveQuestionStatus,
	}
}

// NewSessionListResponse создает DTO списка сессий
func NewSessionListResponse(sessions []entity.ClassSession) SessionListResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, NewSessionResponse(&sessions[i], ""))
	}
	return SessionListResponse{Sessions: out, Total: len(out)}
}

// NewQuestionResponse создает DTO вопроса для преподавателя
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	return QuestionResponse{
		ID:            q.ID,
		RefID:         q.QuestionRefID,
		Text:          q.Text,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
	}
}

// NewQuestionListResponse создает DTO списка вопросов
func NewQuestionListResponse(questions []entity.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, NewQuestionResponse(&questions[i]))
	}
	return out
}

// DashboardResponse - сводка по сессии для панели преподавателя
type DashboardResponse struct {
	Session      SessionResponse         `json:"session"`
	MemberCount  int                     `json:"member_count"`
	Members      []UserResponse          `json:"members"`
	ActiveAnswer *ActiveAnswerStats      `json:"active_answers,omitempty"`
	Results      *service.SessionResults `json:"results,omitempty"`
}

// ActiveAnswerStats - счетчик ответов на текущий вопрос
type ActiveAnswerStats struct {
	QuestionID uint  `json:"question_id"`
	Answered   int64 `json:"answered"`
}
