package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	"github.com/yourusername/classroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
	"github.com/yourusername/classroom-api/pkg/auth"
)

// AuthResult возвращается методами входа: пользователь и выданный токен.
type AuthResult struct {
	User  *entity.User
	Token string
}

// AuthService отвечает за регистрацию и вход.
// Преподаватели входят по email и паролю, студенты - через Google OAuth.
type AuthService struct {
	userRepo    repository.UserRepository
	jwtService  *auth.JWTService
	googleOAuth *GoogleOAuthService
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	googleOAuth *GoogleOAuthService,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		googleOAuth: googleOAuth,
	}
}

// RegisterPresenter создает учетную запись преподавателя
func (s *AuthService) RegisterPresenter(name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidation)
	}

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email is already registered", apperrors.ErrStateConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user := &entity.User{
		Name:     name,
		Email:    email,
		Password: password, // хешируется в BeforeSave
		Role:     entity.RolePresenter,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create presenter account: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	log.Printf("[AuthService] Зарегистрирован преподаватель ID=%d, Email=%s", user.ID, user.Email)
	return &AuthResult{User: user, Token: token}, nil
}

// LoginWithPassword проверяет пароль преподавателя и выдает токен
func (s *AuthService) LoginWithPassword(email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GoogleAuthURL возвращает ссылку на страницу согласия Google и state
func (s *AuthService) GoogleAuthURL() (string, string, error) {
	if s.googleOAuth == nil {
		return "", "", fmt.Errorf("%w: google login is not configured", apperrors.ErrValidation)
	}
	return s.googleOAuth.AuthCodeURL()
}

// LoginWithGoogle обменивает authorization code на профиль Google,
// создает или обновляет студента и выдает токен.
func (s *AuthService) LoginWithGoogle(ctx context.Context, code string) (*AuthResult, error) {
	if s.googleOAuth == nil {
		return nil, fmt.Errorf("%w: google login is not configured", apperrors.ErrValidation)
	}

	info, err := s.googleOAuth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	name := info.Name
	if name == "" {
		name = strings.Split(info.Email, "@")[0]
	}

	googleID := info.Sub
	user, err := s.userRepo.UpsertByGoogleID(&entity.User{
		GoogleID: &googleID,
		Email:    info.Email,
		Name:     name,
		Role:     entity.RoleStudent,
	})
	if err != nil {
		// Запись могла существовать, а обновление профиля сорваться
		// (например, email занят другой учеткой). Вход при этом
		// остается возможным со старыми данными профиля.
		existing, getErr := s.userRepo.GetByGoogleID(googleID)
		if getErr != nil {
			return nil, err
		}
		log.Printf("[AuthService] Обновление профиля Google не удалось для sub=%s, вход со старым профилем: %v", googleID, err)
		user = existing
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetUser возвращает профиль пользователя по ID
func (s *AuthService) GetUser(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
