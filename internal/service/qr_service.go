package service

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// QRService генерирует QR-коды со ссылкой для подключения студентов.
// PNG сохраняется на диск и раздается как статика.
type QRService struct {
	baseURL   string
	outputDir string
}

func NewQRService(baseURL, outputDir string) (*QRService, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required for QR generation")
	}
	if outputDir == "" {
		outputDir = "static/qr"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create qr output dir %s: %w", outputDir, err)
	}
	return &QRService{baseURL: baseURL, outputDir: outputDir}, nil
}

// JoinURL возвращает ссылку, которую сканируют студенты
func (s *QRService) JoinURL(sessionCode string) string {
	return fmt.Sprintf("%s/join/%s", s.baseURL, sessionCode)
}

// Generate создает PNG с QR-кодом для сессии и возвращает публичный
// путь к файлу.
func (s *QRService) Generate(sessionCode string) (string, error) {
	if sessionCode == "" {
		return "", fmt.Errorf("session code is required")
	}

	filename := sessionCode + ".png"
	fullPath := filepath.Join(s.outputDir, filename)

	if err := qrcode.WriteFile(s.JoinURL(sessionCode), qrcode.Medium, 256, fullPath); err != nil {
		return "", fmt.Errorf("failed to write qr code for session %s: %w", sessionCode, err)
	}

	log.Printf("[QRService] QR-код сохранен: %s", fullPath)
	return "/static/qr/" + filename, nil
}
