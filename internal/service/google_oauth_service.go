package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yourusername/classroom-api/internal/config"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
)

// GoogleUserInfo holds the profile fields returned by the Google
// userinfo endpoint that we care about.
type GoogleUserInfo struct {
	Sub           string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// GoogleOAuthService выполняет обмен authorization code на профиль
// пользователя Google (вход студентов).
type GoogleOAuthService struct {
	cfg        config.GoogleOAuthConfig
	httpClient *http.Client
}

func NewGoogleOAuthService(cfg config.GoogleOAuthConfig) (*GoogleOAuthService, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, fmt.Errorf("google oauth client id and secret are required")
	}
	if strings.TrimSpace(cfg.RedirectURL) == "" {
		return nil, fmt.Errorf("google oauth redirect url is required")
	}
	return &GoogleOAuthService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// AuthCodeURL строит ссылку на страницу согласия Google и возвращает
// ее вместе со сгенерированным state.
func (s *GoogleOAuthService) AuthCodeURL() (authURL string, state string, err error) {
	state, err = generateRandomHex(16)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate oauth state: %w", err)
	}

	values := url.Values{}
	values.Set("client_id", s.cfg.ClientID)
	values.Set("redirect_uri", s.cfg.RedirectURL)
	values.Set("response_type", "code")
	values.Set("scope", "openid email profile")
	values.Set("state", state)

	return "https://accounts.google.com/o/oauth2/v2/auth?" + values.Encode(), state, nil
}

// Exchange обменивает authorization code на access token и запрашивает
// профиль пользователя.
func (s *GoogleOAuthService) Exchange(ctx context.Context, code string) (*GoogleUserInfo, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code is required", apperrors.ErrValidation)
	}

	accessToken, err := s.exchangeCodeForAccessToken(ctx, code)
	if err != nil {
		return nil, err
	}

	info, err := s.fetchUserInfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if info.Sub == "" {
		return nil, fmt.Errorf("%w: google profile is missing subject id", apperrors.ErrUnauthorized)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%w: google profile is missing email", apperrors.ErrUnauthorized)
	}

	return info, nil
}

func (s *GoogleOAuthService) exchangeCodeForAccessToken(ctx context.Context, code string) (string, error) {
	values := url.Values{}
	values.Set("code", code)
	values.Set("client_id", s.cfg.ClientID)
	values.Set("client_secret", s.cfg.ClientSecret)
	values.Set("redirect_uri", s.cfg.RedirectURL)
	values.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://oauth2.googleapis.com/token", strings.NewReader(values.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create google token exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("google token exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("%w: google token exchange status=%d body=%s", apperrors.ErrUnauthorized, resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to parse google token exchange response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("%w: access_token not returned by google token exchange", apperrors.ErrUnauthorized)
	}

	return payload.AccessToken, nil
}

func (s *GoogleOAuthService) fetchUserInfo(ctx context.Context, accessToken string) (*GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create google userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("%w: google userinfo status=%d body=%s", apperrors.ErrUnauthorized, resp.StatusCode, string(body))
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to parse google userinfo response: %w", err)
	}

	info.Sub = strings.TrimSpace(info.Sub)
	info.Email = strings.ToLower(strings.TrimSpace(info.Email))
	info.Name = strings.TrimSpace(info.Name)

	return &info, nil
}

func generateRandomHex(byteLen int) (string, error) {
	if byteLen <= 0 {
		byteLen = 16
	}
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
