package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// ============================================================================
// Моки репозиториев, общие для тестов сервисов
// ============================================================================

// MockSessionRepo реализует repository.SessionRepository
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(session *entity.ClassSession) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockSessionRepo) GetByID(id uint) (*entity.ClassSession, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ClassSession), args.Error(1)
}

func (m *MockSessionRepo) GetActiveByCode(code string) (*entity.ClassSession, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ClassSession), args.Error(1)
}

func (m *MockSessionRepo) ListByPresenter(presenterID uint) ([]entity.ClassSession, error) {
	args := m.Called(presenterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ClassSession), args.Error(1)
}

func (m *MockSessionRepo) AddMember(sessionID, userID uint) error {
	args := m.Called(sessionID, userID)
	return args.Error(0)
}

func (m *MockSessionRepo) IsMember(sessionID, userID uint) (bool, error) {
	args := m.Called(sessionID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionRepo) ListMembers(sessionID uint) ([]entity.User, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockSessionRepo) CountMembers(sessionID uint) (int64, error) {
	args := m.Called(sessionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepo) ActivateQuestion(sessionID, questionID uint) error {
	args := m.Called(sessionID, questionID)
	return args.Error(0)
}

func (m *MockSessionRepo) CloseQuestion(sessionID, questionID uint) error {
	args := m.Called(sessionID, questionID)
	return args.Error(0)
}

func (m *MockSessionRepo) End(sessionID uint) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

// MockQuestionRepo реализует repository.QuestionRepository
type MockQuestionRepo struct {
	mock.Mock
}

func (m *MockQuestionRepo) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetByRefID(refID string) (*entity.Question, error) {
	args := m.Called(refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) List() ([]entity.Question, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

// MockResponseRepo реализует repository.ResponseRepository
type MockResponseRepo struct {
	mock.Mock
}

func (m *MockResponseRepo) Create(response *entity.StudentResponse) error {
	args := m.Called(response)
	return args.Error(0)
}

func (m *MockResponseRepo) Exists(studentID, sessionID, questionID uint) (bool, error) {
	args := m.Called(studentID, sessionID, questionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockResponseRepo) ListBySession(sessionID uint) ([]entity.StudentResponse, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.StudentResponse), args.Error(1)
}

func (m *MockResponseRepo) CountForQuestion(sessionID, questionID uint) (int64, error) {
	args := m.Called(sessionID, questionID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepo реализует repository.UserRepository
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByGoogleID(googleID string) (*entity.User, error) {
	args := m.Called(googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) UpsertByGoogleID(user *entity.User) (*entity.User, error) {
	args := m.Called(user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

// MockCacheRepo реализует repository.CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// MockEmailService реализует EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendSessionSummary(ctx context.Context, toEmail, sessionCode string, textBody, htmlBody string) error {
	args := m.Called(ctx, toEmail, sessionCode, textBody, htmlBody)
	return args.Error(0)
}
