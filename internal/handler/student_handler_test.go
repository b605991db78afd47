package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	"github.com/yourusername/classroom-api/internal/service"
)

func newSubmitRouter(t *testing.T, sessionRepo *MockSessionRepo, questionRepo *MockQuestionRepo, responseRepo *MockResponseRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	submissionService := service.NewSubmissionService(sessionRepo, questionRepo, responseRepo)
	h := NewStudentHandler(nil, submissionService)

	router := gin.New()
	router.POST("/api/sessions/current/answers", func(c *gin.Context) {
		c.Set("user_id", uint(7))
		h.Submit(c)
	})
	return router
}

func openSessionFixture() (*MockSessionRepo, *MockQuestionRepo, *MockResponseRepo) {
	status := entity.QuestionStatusOpen
	questionID := uint(5)
	session := &entity.ClassSession{
		ID: 3, PresenterID: 1, IsActive: true,
		ActiveQuestionID: &questionID, ActiveQuestionStatus: &status,
	}

	sessionRepo := new(MockSessionRepo)
	sessionRepo.On("GetByID", uint(3)).Return(session, nil)
	sessionRepo.On("IsMember", uint(3), uint(7)).Return(true, nil)

	questionRepo := new(MockQuestionRepo)
	questionRepo.On("GetByID", uint(5)).Return(&entity.Question{
		ID:            5,
		QuestionRefID: "q1",
		Options:       entity.OptionMap{"A": "3", "B": "4"},
		CorrectAnswer: "B",
	}, nil)

	responseRepo := new(MockResponseRepo)
	responseRepo.On("Create", mock.AnythingOfType("*entity.StudentResponse")).Return(nil)

	return sessionRepo, questionRepo, responseRepo
}

// Тело запроса несет поле question_db_id: ID вопроса в базе
func TestStudentHandler_Submit_AcceptsQuestionDBID(t *testing.T) {
	sessionRepo, questionRepo, responseRepo := openSessionFixture()
	router := newSubmitRouter(t, sessionRepo, questionRepo, responseRepo)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/current/answers",
		strings.NewReader(`{"question_db_id": 5, "chosen_answer": "B"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Class-Session", "3")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"accepted"`)
	assert.Contains(t, w.Body.String(), `"question_db_id":5`)
	responseRepo.AssertExpectations(t)
}

func TestStudentHandler_Submit_RejectsBodyWithoutQuestionDBID(t *testing.T) {
	sessionRepo, questionRepo, responseRepo := openSessionFixture()
	router := newSubmitRouter(t, sessionRepo, questionRepo, responseRepo)

	// Поле названо иначе - биндинг required не проходит
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/current/answers",
		strings.NewReader(`{"question_id": 5, "chosen_answer": "B"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Class-Session", "3")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	responseRepo.AssertNotCalled(t, "Create", mock.Anything)
}
