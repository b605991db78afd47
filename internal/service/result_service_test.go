package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/classroom-api/internal/domain/entity"
)

func resultsFixture() (*MockSessionRepo, *MockQuestionRepo, *MockResponseRepo) {
	mockSessionRepo := new(MockSessionRepo)
	mockQuestionRepo := new(MockQuestionRepo)
	mockResponseRepo := new(MockResponseRepo)

	session := &entity.ClassSession{ID: 3, SessionCode: "code-3", PresenterID: 1, IsActive: false}
	mockSessionRepo.On("GetByID", uint(3)).Return(session, nil)

	// Порядок присоединения: Анна, Борис, Вера
	mockSessionRepo.On("ListMembers", uint(3)).Return([]entity.User{
		{ID: 10, Name: "Anna", Email: "anna@example.com"},
		{ID: 11, Name: "Boris", Email: "boris@example.com"},
		{ID: 12, Name: "Vera", Email: "vera@example.com"},
	}, nil)

	mockQuestionRepo.On("List").Return([]entity.Question{
		{ID: 5, QuestionRefID: "q1", Text: "2 + 2?", Options: entity.OptionMap{"A": "3", "B": "4"}, CorrectAnswer: "B"},
		{ID: 6, QuestionRefID: "q2", Text: "3 * 3?", Options: entity.OptionMap{"A": "9", "B": "6"}, CorrectAnswer: "A"},
	}, nil)

	now := time.Now()
	mockResponseRepo.On("ListBySession", uint(3)).Return([]entity.StudentResponse{
		{StudentID: 10, ClassSessionID: 3, QuestionID: 5, ChosenAnswer: "B", SubmittedAt: now},
		{StudentID: 11, ClassSessionID: 3, QuestionID: 5, ChosenAnswer: "A", SubmittedAt: now},
		{StudentID: 12, ClassSessionID: 3, QuestionID: 5, ChosenAnswer: "B", SubmittedAt: now},
		{StudentID: 10, ClassSessionID: 3, QuestionID: 6, ChosenAnswer: "B", SubmittedAt: now},
		{StudentID: 12, ClassSessionID: 3, QuestionID: 6, ChosenAnswer: "A", SubmittedAt: now},
	}, nil)

	return mockSessionRepo, mockQuestionRepo, mockResponseRepo
}

func TestResultService_SessionResults_ScoresAndOrder(t *testing.T) {
	svc := NewResultService(resultsFixture())

	results, err := svc.SessionResults(3)

	require.NoError(t, err)
	assert.Equal(t, "code-3", results.SessionCode)
	require.Len(t, results.Scores, 3)

	// Вера: 2 правильных, Анна: 1, Борис: 0
	assert.Equal(t, "Vera", results.Scores[0].Name)
	assert.Equal(t, 2, results.Scores[0].Correct)
	assert.Equal(t, "Anna", results.Scores[1].Name)
	assert.Equal(t, 1, results.Scores[1].Correct)
	assert.Equal(t, 2, results.Scores[1].Answered)
	assert.Equal(t, "Boris", results.Scores[2].Name)
	assert.Equal(t, 0, results.Scores[2].Correct)
}

func TestResultService_SessionResults_PerQuestionAnswers(t *testing.T) {
	svc := NewResultService(resultsFixture())

	results, err := svc.SessionResults(3)

	require.NoError(t, err)

	// Анна (вторая строка после сортировки) отвечала на оба вопроса
	anna := results.Scores[1]
	require.Len(t, anna.Answers, 2)
	require.NotNil(t, anna.Answers[5].Chosen)
	assert.Equal(t, "B", *anna.Answers[5].Chosen)
	assert.True(t, anna.Answers[5].IsCorrect)
	require.NotNil(t, anna.Answers[6].Chosen)
	assert.Equal(t, "B", *anna.Answers[6].Chosen)
	assert.False(t, anna.Answers[6].IsCorrect)

	// Борис не отвечал на второй вопрос: запись есть, выбор отсутствует
	boris := results.Scores[2]
	require.Len(t, boris.Answers, 2)
	assert.Nil(t, boris.Answers[6].Chosen)
	assert.False(t, boris.Answers[6].IsCorrect)
	assert.Equal(t, "A", boris.Answers[6].Correct)
}

func TestResultService_SessionResults_SilentMemberScoredZero(t *testing.T) {
	mockSessionRepo := new(MockSessionRepo)
	mockQuestionRepo := new(MockQuestionRepo)
	mockResponseRepo := new(MockResponseRepo)

	session := &entity.ClassSession{ID: 4, SessionCode: "code-4", PresenterID: 1}
	mockSessionRepo.On("GetByID", uint(4)).Return(session, nil)
	mockSessionRepo.On("ListMembers", uint(4)).Return([]entity.User{
		{ID: 20, Name: "Anna"},
		{ID: 21, Name: "Boris"},
	}, nil)
	mockQuestionRepo.On("List").Return([]entity.Question{
		{ID: 5, QuestionRefID: "q1", CorrectAnswer: "B"},
		{ID: 6, QuestionRefID: "q2", CorrectAnswer: "A"},
	}, nil)
	// Борис присоединился, но не ответил ни на один вопрос
	mockResponseRepo.On("ListBySession", uint(4)).Return([]entity.StudentResponse{
		{StudentID: 20, ClassSessionID: 4, QuestionID: 5, ChosenAnswer: "B"},
	}, nil)

	svc := NewResultService(mockSessionRepo, mockQuestionRepo, mockResponseRepo)

	results, err := svc.SessionResults(4)

	require.NoError(t, err)
	require.Len(t, results.Scores, 2)

	boris := results.Scores[1]
	assert.Equal(t, "Boris", boris.Name)
	assert.Equal(t, 0, boris.Answered)
	assert.Equal(t, 0, boris.Correct)
	require.Len(t, boris.Answers, 2, "Запись есть по каждому вопросу банка")
	for _, detail := range boris.Answers {
		assert.Nil(t, detail.Chosen)
		assert.False(t, detail.IsCorrect)
		assert.NotEmpty(t, detail.Correct)
	}
}

func TestResultService_SessionResults_QuestionStats(t *testing.T) {
	svc := NewResultService(resultsFixture())

	results, err := svc.SessionResults(3)

	require.NoError(t, err)
	require.Len(t, results.Questions, 2)

	first := results.Questions[0]
	assert.Equal(t, "q1", first.RefID)
	assert.Equal(t, 3, first.Total)
	assert.Equal(t, map[string]int{"A": 1, "B": 2}, first.Counts)

	second := results.Questions[1]
	assert.Equal(t, "q2", second.RefID)
	assert.Equal(t, 2, second.Total)
}

func TestResultService_SessionResults_TieKeepsJoinOrder(t *testing.T) {
	mockSessionRepo := new(MockSessionRepo)
	mockQuestionRepo := new(MockQuestionRepo)
	mockResponseRepo := new(MockResponseRepo)

	session := &entity.ClassSession{ID: 3, SessionCode: "code-3", PresenterID: 1}
	mockSessionRepo.On("GetByID", uint(3)).Return(session, nil)
	mockSessionRepo.On("ListMembers", uint(3)).Return([]entity.User{
		{ID: 10, Name: "Anna"},
		{ID: 11, Name: "Boris"},
	}, nil)
	mockQuestionRepo.On("List").Return([]entity.Question{}, nil)
	mockResponseRepo.On("ListBySession", uint(3)).Return([]entity.StudentResponse{}, nil)

	svc := NewResultService(mockSessionRepo, mockQuestionRepo, mockResponseRepo)

	results, err := svc.SessionResults(3)

	require.NoError(t, err)
	require.Len(t, results.Scores, 2)
	assert.Equal(t, "Anna", results.Scores[0].Name, "При равных баллах сохраняется порядок присоединения")
	assert.Equal(t, "Boris", results.Scores[1].Name)
}

func TestResultService_TopScores_Truncates(t *testing.T) {
	svc := NewResultService(resultsFixture())

	top, err := svc.TopScores(3, 2)

	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Vera", top[0].Name)
}

func TestResultService_RenderSummary(t *testing.T) {
	svc := NewResultService(resultsFixture())

	text, htm, err := svc.RenderSummary(3)

	require.NoError(t, err)
	assert.Contains(t, text, "Session code-3 has ended.")
	assert.Contains(t, text, "1. Vera - 2 correct of 2 answered")
	assert.Contains(t, htm, "<strong>code-3</strong>")
	assert.Contains(t, htm, "<li>Vera - 2 correct of 2 answered</li>")
}
