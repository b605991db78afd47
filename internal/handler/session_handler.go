package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/classroom-api/internal/handler/dto"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
	"github.com/yourusername/classroom-api/internal/service"
)

// SessionHandler обрабатывает запросы преподавателя к сессиям занятий
type SessionHandler struct {
	sessionService *service.SessionService
	resultService  *service.ResultService
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(
	sessionService *service.SessionService,
	resultService *service.ResultService,
) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		resultService:  resultService,
	}
}

// Create открывает новую сессию
// POST /api/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	presenterID := c.MustGet("user_id").(uint)

	session, err := h.sessionService.Create(presenterID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSessionResponse(session, h.sessionService.JoinURL(session)))
}

// List возвращает сессии преподавателя
// GET /api/sessions
func (h *SessionHandler) List(c *gin.Context) {
	presenterID := c.MustGet("user_id").(uint)

	sessions, err := h.sessionService.ListByPresenter(presenterID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionListResponse(sessions))
}

// Get возвращает сводку по сессии для панели преподавателя
// GET /api/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	presenterID := c.MustGet("user_id").(uint)
	sessionID := c.MustGet("sessionID").(uint)

	session, err := h.sessionService.GetForPresenter(presenterID, sessionID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	members, err := h.sessionService.Members(sessionID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	resp := dto.DashboardResponse{
		Session:     dto.NewSessionResponse(session, h.sessionService.JoinURL(session)),
		MemberCount: len(members),
	}
	resp.Members = make([]dto.UserResponse, 0, len(members))
	for i := range members {
		resp.Members = append(resp.Members, dto.NewUserResponse(&members[i]))
	}

	// Для открытого или закрытого вопроса показываем счетчик ответов
	if active, ok := session.ActiveQuestion(); ok {
		answered, countErr := h.resultService.AnsweredCount(sessionID, active.QuestionID)
		if countErr != nil {
			log.Printf("[SessionHandler] Ошибка подсчета ответов для сессии %d: %v", sessionID, countErr)
		} else {
			resp.ActiveAnswer = &dto.ActiveAnswerStats{QuestionID: active.QuestionID, Answered: answered}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Questions возвращает банк вопросов с правильными ответами
// GET /api/questions
func (h *SessionHandler) Questions(c *gin.Context) {
	questions, err := h.sessionService.Questions()
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": dto.NewQuestionListResponse(questions)})
}

// QuestionByRef возвращает один вопрос банка по его идентификатору
// GET /api/questions/:ref_id
func (h *SessionHandler) QuestionByRef(c *gin.Context) {
	question, err := h.sessionService.QuestionByRef(c.Param("ref_id"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuestionResponse(question))
}

// ActivateQuestion открывает вопрос для приема ответов
// POST /api/sessions/:id/questions/:question_id/activate
func (h *SessionHandler) ActivateQuestion(c *gin.Context) {
	presenterID := c.MustGet("user_id").(uint)
	sessionID := c.MustGet("sessionID").(uint)
	questionID := c.MustGet("questionID").(uint)

	if err := h.sessionService.ActivateQuestion(presenterID, sessionID, questionID); err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "open", "question_id": questionID})
}

// CloseQuestion прекращает прием ответов
// POST /api/sessions/:id/questions/:question_id/close
func (h *SessionHandler) CloseQuestion(c *gin.Context) {
	presenterID := c.MustGet("user_id").(uint)
	sessionID := c.MustGet("sessionID").(uint)
	questionID := c.MustGet("questionID").(uint)

	if err := h.sessionService.CloseQuestion(presenterID, sessionID, questionID); err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "closed", "question_id": questionID})
}

// End завершает сессию
// POST /api/sessions/:id/end
func (h *SessionHandler) End(c *gin.Context) {
	presenterID := c.MustGet("user_id").(uint)
	sessionID := c.MustGet("sessionID").(uint)

	if err := h.sessionService.End(c.Request.Context(), presenterID, sessionID); err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ended"})
}

// Results возвращает итоги сессии
// GET /api/sessions/:id/results
func (h *SessionHandler) Results(c *gin.Context) {
	presenterID := c.MustGet("user_id").(uint)
	sessionID := c.MustGet("sessionID").(uint)

	if _, err := h.sessionService.GetForPresenter(presenterID, sessionID); err != nil {
		h.handleSessionError(c, err)
		return
	}

	results, err := h.resultService.SessionResults(sessionID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// ExportResults экспортирует итоги сессии в CSV или Excel формате
// GET /api/sessions/:id/results/export?format=csv|xlsx
func (h *SessionHandler) ExportResults(c *gin.Context) {
	presenterID := c.MustGet("user_id").(uint)
	sessionID := c.MustGet("sessionID").(uint)
	format := c.DefaultQuery("format", "csv")

	if _, err := h.sessionService.GetForPresenter(presenterID, sessionID); err != nil {
		h.handleSessionError(c, err)
		return
	}

	results, err := h.resultService.SessionResults(sessionID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	filename := fmt.Sprintf("session_%d_results_%s", sessionID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, results, filename)
	default:
		h.exportCSV(c, results, filename)
	}
}

// exportCSV экспортирует итоги в CSV с правильным экранированием спецсимволов
func (h *SessionHandler) exportCSV(c *gin.Context, results *service.SessionResults, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Место", "Студент", "Email", "Отвечено", "Правильных"})

	for i, score := range results.Scores {
		writer.Write([]string{
			strconv.Itoa(i + 1),
			sanitizeForExcel(score.Name),
			sanitizeForExcel(score.Email),
			strconv.Itoa(score.Answered),
			strconv.Itoa(score.Correct),
		})
	}
}

// exportXLSX экспортирует итоги в Excel с использованием StreamWriter
func (h *SessionHandler) exportXLSX(c *gin.Context, results *service.SessionResults, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Итоги"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[SessionHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Место", "Студент", "Email", "Отвечено", "Правильных"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[SessionHandler] Ошибка записи заголовков: %v", err)
	}

	for i, score := range results.Scores {
		rowNum := i + 2 // 1 - заголовки
		cell := fmt.Sprintf("A%d", rowNum)

		row := []interface{}{i + 1, sanitizeForExcel(score.Name), sanitizeForExcel(score.Email), score.Answered, score.Correct}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[SessionHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[SessionHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[SessionHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// handleSessionError преобразует ошибки сервиса в HTTP-статусы
func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrStateConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrSessionInactive) || errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in SessionHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
