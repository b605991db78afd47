package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
	"github.com/yourusername/classroom-api/pkg/auth"
)

func newTestAuthService(t *testing.T, userRepo *MockUserRepo) *AuthService {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret", 1)
	require.NoError(t, err)
	return NewAuthService(userRepo, jwtService, nil)
}

func hashedPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_RegisterPresenter_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepo)
	mockUserRepo.On("GetByEmail", "teacher@example.com").Return(nil, apperrors.ErrNotFound)
	mockUserRepo.On("Create", mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "teacher@example.com" && u.Role == entity.RolePresenter
	})).Return(nil)

	svc := newTestAuthService(t, mockUserRepo)

	result, err := svc.RegisterPresenter("Teacher", "Teacher@Example.com", "secret-password")

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, entity.RolePresenter, result.User.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_RegisterPresenter_DuplicateEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepo)
	mockUserRepo.On("GetByEmail", "teacher@example.com").
		Return(&entity.User{ID: 1, Email: "teacher@example.com"}, nil)

	svc := newTestAuthService(t, mockUserRepo)

	_, err := svc.RegisterPresenter("Teacher", "teacher@example.com", "secret-password")

	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
}

func TestAuthService_RegisterPresenter_ShortPassword(t *testing.T) {
	svc := newTestAuthService(t, new(MockUserRepo))

	_, err := svc.RegisterPresenter("Teacher", "teacher@example.com", "short")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAuthService_LoginWithPassword_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepo)
	user := &entity.User{
		ID:       1,
		Email:    "teacher@example.com",
		Password: hashedPassword(t, "secret-password"),
		Role:     entity.RolePresenter,
	}
	mockUserRepo.On("GetByEmail", "teacher@example.com").Return(user, nil)

	svc := newTestAuthService(t, mockUserRepo)

	result, err := svc.LoginWithPassword("teacher@example.com", "secret-password")

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, uint(1), result.User.ID)
}

func TestAuthService_LoginWithPassword_WrongPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepo)
	user := &entity.User{
		ID:       1,
		Email:    "teacher@example.com",
		Password: hashedPassword(t, "secret-password"),
	}
	mockUserRepo.On("GetByEmail", "teacher@example.com").Return(user, nil)

	svc := newTestAuthService(t, mockUserRepo)

	_, err := svc.LoginWithPassword("teacher@example.com", "wrong")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_LoginWithPassword_UnknownEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepo)
	mockUserRepo.On("GetByEmail", "nobody@example.com").Return(nil, apperrors.ErrNotFound)

	svc := newTestAuthService(t, mockUserRepo)

	_, err := svc.LoginWithPassword("nobody@example.com", "whatever")

	// Не раскрываем, что именно неверно: email или пароль
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_GoogleAuthURL_NotConfigured(t *testing.T) {
	svc := newTestAuthService(t, new(MockUserRepo))

	_, _, err := svc.GoogleAuthURL()

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAuthService_JWTRoundTrip(t *testing.T) {
	jwtService, err := auth.NewJWTService("test-secret", 1)
	require.NoError(t, err)

	user := &entity.User{ID: 42, Email: "student@example.com", Role: entity.RoleStudent}
	token, err := jwtService.GenerateToken(user)
	require.NoError(t, err)

	claims, err := jwtService.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, entity.RoleStudent, claims.Role)
}

func TestAuthService_JWT_WrongSecret(t *testing.T) {
	jwtService, err := auth.NewJWTService("test-secret", 1)
	require.NoError(t, err)
	otherService, err := auth.NewJWTService("other-secret", 1)
	require.NoError(t, err)

	token, err := jwtService.GenerateToken(&entity.User{ID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	_, err = otherService.ParseToken(token)
	assert.Error(t, err, "Токен с чужой подписью не проходит проверку")
}
