package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	"github.com/yourusername/classroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
)

// SubmissionResult возвращается после успешного приема ответа
type SubmissionResult struct {
	Response *entity.StudentResponse
	Correct  bool
}

// SubmissionService принимает ответы студентов на активный вопрос.
// Проверки идут в фиксированном порядке: сессия, членство, статус
// вопроса, валидность варианта, затем вставка. Дубль при гонке ловит
// уникальный индекс базы.
type SubmissionService struct {
	sessionRepo  repository.SessionRepository
	questionRepo repository.QuestionRepository
	responseRepo repository.ResponseRepository
}

func NewSubmissionService(
	sessionRepo repository.SessionRepository,
	questionRepo repository.QuestionRepository,
	responseRepo repository.ResponseRepository,
) *SubmissionService {
	return &SubmissionService{
		sessionRepo:  sessionRepo,
		questionRepo: questionRepo,
		responseRepo: responseRepo,
	}
}

// Submit принимает ответ студента на вопрос.
// Статус вопроса проверяется по базе, а не по кешу: прием ответов
// должен закрываться строго в момент закрытия вопроса.
func (s *SubmissionService) Submit(studentID, sessionID, questionID uint, chosenAnswer string) (*SubmissionResult, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, fmt.Errorf("%w: session has ended", apperrors.ErrSessionInactive)
	}

	member, err := s.sessionRepo.IsMember(sessionID, studentID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: student has not joined this session", apperrors.ErrForbidden)
	}

	if !session.IsQuestionOpen(questionID) {
		return nil, fmt.Errorf("%w: question %d is not open for answers", apperrors.ErrQuestionNotOpen, questionID)
	}

	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	if !question.IsValidLabel(chosenAnswer) {
		return nil, fmt.Errorf("%w: %q is not a valid option for this question", apperrors.ErrValidation, chosenAnswer)
	}

	response := &entity.StudentResponse{
		StudentID:      studentID,
		ClassSessionID: sessionID,
		QuestionID:     questionID,
		ChosenAnswer:   chosenAnswer,
		SubmittedAt:    time.Now(),
	}
	if err := s.responseRepo.Create(response); err != nil {
		if errors.Is(err, repository.ErrDuplicateResponse) {
			return nil, fmt.Errorf("%w: answer already submitted for this question", apperrors.ErrDuplicateSubmission)
		}
		return nil, err
	}

	log.Printf("[SubmissionService] Ответ принят: студент=%d, сессия=%d, вопрос=%d", studentID, sessionID, questionID)
	return &SubmissionResult{
		Response: response,
		Correct:  question.IsCorrect(chosenAnswer),
	}, nil
}

// HasAnswered сообщает, отвечал ли студент на вопрос в этой сессии
func (s *SubmissionService) HasAnswered(studentID, sessionID, questionID uint) (bool, error) {
	return s.responseRepo.Exists(studentID, sessionID, questionID)
}
