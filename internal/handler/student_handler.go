package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/classroom-api/internal/handler/dto"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
	"github.com/yourusername/classroom-api/internal/service"
)

// sessionHeader передает ID текущей сессии студента.
// Альтернатива - query-параметр class_session_id.
const sessionHeader = "X-Class-Session"

// StudentHandler обрабатывает запросы студентов: подключение к сессии,
// поллинг активного вопроса и отправку ответов.
type StudentHandler struct {
	sessionService    *service.SessionService
	submissionService *service.SubmissionService
}

// NewStudentHandler создает новый обработчик студентов
func NewStudentHandler(
	sessionService *service.SessionService,
	submissionService *service.SubmissionService,
) *StudentHandler {
	return &StudentHandler{
		sessionService:    sessionService,
		submissionService: submissionService,
	}
}

// JoinRequest представляет запрос на подключение к сессии
type JoinRequest struct {
	SessionCode string `json:"session_code" binding:"required"`
}

// Join подключает студента к активной сессии по коду из QR
// POST /api/sessions/join
func (h *StudentHandler) Join(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessionService.Join(userID, req.SessionCode)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionResponse(session, ""))
}

// CurrentQuestion возвращает состояние активного вопроса.
// Это поллинговый endpoint: клиент опрашивает его раз в 1-2 секунды.
// GET /api/sessions/current/question
func (h *StudentHandler) CurrentQuestion(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	sessionID, ok := h.currentSessionID(c)
	if !ok {
		return
	}

	if err := h.sessionService.VerifyMembership(sessionID, userID); err != nil {
		h.handleStudentError(c, err)
		return
	}

	view, err := h.sessionService.CurrentQuestion(sessionID)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	// Сообщаем студенту, отвечал ли он уже на открытый вопрос
	if view.Question != nil {
		answered, ansErr := h.submissionService.HasAnswered(userID, sessionID, view.Question.ID)
		if ansErr != nil {
			log.Printf("[StudentHandler] Ошибка проверки ответа студента %d: %v", userID, ansErr)
		} else if answered {
			c.JSON(http.StatusOK, gin.H{"status": view.Status, "question": view.Question, "already_answered": true})
			return
		}
	}

	c.JSON(http.StatusOK, view)
}

// SubmitRequest представляет отправку ответа на активный вопрос.
// question_db_id - ID вопроса в базе (не человекочитаемый ref id).
type SubmitRequest struct {
	QuestionID   uint   `json:"question_db_id" binding:"required"`
	ChosenAnswer string `json:"chosen_answer" binding:"required,min=1,max=1"`
}

// Submit принимает ответ студента
// POST /api/sessions/current/answers
func (h *StudentHandler) Submit(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	sessionID, ok := h.currentSessionID(c)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.submissionService.Submit(userID, sessionID, req.QuestionID, req.ChosenAnswer)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":         "accepted",
		"question_db_id": result.Response.QuestionID,
	})
}

// currentSessionID извлекает ID сессии из заголовка или query-параметра
func (h *StudentHandler) currentSessionID(c *gin.Context) (uint, bool) {
	raw := c.GetHeader(sessionHeader)
	if raw == "" {
		raw = c.Query("class_session_id")
	}
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Class session is required (X-Class-Session header or class_session_id query param)"})
		return 0, false
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class session id"})
		return 0, false
	}
	return uint(id), true
}

// handleStudentError преобразует ошибки сервиса в HTTP-статусы
func (h *StudentHandler) handleStudentError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrDuplicateSubmission) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrQuestionNotOpen) ||
		errors.Is(err, apperrors.ErrSessionInactive) ||
		errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in StudentHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
