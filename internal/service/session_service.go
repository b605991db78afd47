package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	"github.com/yourusername/classroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
)

// activeQuestionCacheTTL ограничивает жизнь кеш-записи, чтобы рассинхрон
// с базой после сбоя записи в Redis исчезал сам.
const activeQuestionCacheTTL = 30 * time.Second

// QuestionView - вопрос в том виде, в котором его видят студенты:
// без правильного ответа.
type QuestionView struct {
	ID      uint              `json:"id"`
	RefID   string            `json:"ref_id"`
	Text    string            `json:"text"`
	Options map[string]string `json:"options"`
}

// ActiveQuestionView - ответ на поллинг студента.
// Status: "none", "open" или "closed"; Question заполняется только для open.
type ActiveQuestionView struct {
	Status   string        `json:"status"`
	Question *QuestionView `json:"question,omitempty"`
}

// activeQuestionCacheEntry - сериализуемое состояние слота для Redis
type activeQuestionCacheEntry struct {
	QuestionID uint   `json:"question_id"`
	Status     string `json:"status"` // пустая строка = вопрос не выбран
	SessionEnd bool   `json:"session_ended"`
}

// SessionService управляет жизненным циклом сессии занятия: создание,
// подключение студентов, активация и закрытие вопросов, завершение.
type SessionService struct {
	sessionRepo   repository.SessionRepository
	questionRepo  repository.QuestionRepository
	userRepo      repository.UserRepository
	cacheRepo     repository.CacheRepository
	qrService     *QRService
	emailService  EmailService
	resultService *ResultService
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	qrService *QRService,
	emailService EmailService,
	resultService *ResultService,
) *SessionService {
	return &SessionService{
		sessionRepo:   sessionRepo,
		questionRepo:  questionRepo,
		userRepo:      userRepo,
		cacheRepo:     cacheRepo,
		qrService:     qrService,
		emailService:  emailService,
		resultService: resultService,
	}
}

// Create открывает новую сессию для преподавателя: генерирует код,
// QR-код со ссылкой для подключения и сохраняет запись.
func (s *SessionService) Create(presenterID uint) (*entity.ClassSession, error) {
	code := uuid.NewString()

	qrURL, err := s.qrService.Generate(code)
	if err != nil {
		// Сессия полезна и без картинки: ссылку для подключения
		// можно показать текстом.
		log.Printf("[SessionService] Не удалось сгенерировать QR для сессии %s: %v", code, err)
		qrURL = ""
	}

	session := &entity.ClassSession{
		SessionCode: code,
		QRCodeURL:   qrURL,
		PresenterID: presenterID,
		IsActive:    true,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create class session: %w", err)
	}

	log.Printf("[SessionService] Создана сессия ID=%d, код=%s, преподаватель=%d", session.ID, code, presenterID)
	return session, nil
}

// JoinURL возвращает ссылку для подключения к сессии
func (s *SessionService) JoinURL(session *entity.ClassSession) string {
	return s.qrService.JoinURL(session.SessionCode)
}

// Get возвращает сессию по ID
func (s *SessionService) Get(sessionID uint) (*entity.ClassSession, error) {
	return s.sessionRepo.GetByID(sessionID)
}

// GetForPresenter возвращает сессию и проверяет, что она принадлежит
// преподавателю.
func (s *SessionService) GetForPresenter(presenterID, sessionID uint) (*entity.ClassSession, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.PresenterID != presenterID {
		return nil, fmt.Errorf("%w: session belongs to another presenter", apperrors.ErrForbidden)
	}
	return session, nil
}

// ListByPresenter возвращает сессии преподавателя (новые первыми)
func (s *SessionService) ListByPresenter(presenterID uint) ([]entity.ClassSession, error) {
	return s.sessionRepo.ListByPresenter(presenterID)
}

// Join подключает студента к активной сессии по ее коду.
// Повторное подключение - no-op.
func (s *SessionService) Join(studentID uint, code string) (*entity.ClassSession, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: session code is required", apperrors.ErrValidation)
	}

	session, err := s.sessionRepo.GetActiveByCode(code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no active session with this code", apperrors.ErrSessionInactive)
		}
		return nil, err
	}

	if err := s.sessionRepo.AddMember(session.ID, studentID); err != nil {
		return nil, fmt.Errorf("failed to join session %d: %w", session.ID, err)
	}

	return session, nil
}

// VerifyMembership проверяет, что студент состоит в сессии
func (s *SessionService) VerifyMembership(sessionID, studentID uint) error {
	ok, err := s.sessionRepo.IsMember(sessionID, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: student has not joined this session", apperrors.ErrForbidden)
	}
	return nil
}

// Questions возвращает банк вопросов (для преподавателя)
func (s *SessionService) Questions() ([]entity.Question, error) {
	return s.questionRepo.List()
}

// QuestionByRef возвращает вопрос банка по человекочитаемому
// идентификатору (например "q1").
func (s *SessionService) QuestionByRef(refID string) (*entity.Question, error) {
	return s.questionRepo.GetByRefID(refID)
}

// Members возвращает участников сессии в порядке присоединения
func (s *SessionService) Members(sessionID uint) ([]entity.User, error) {
	return s.sessionRepo.ListMembers(sessionID)
}

// ActivateQuestion открывает вопрос для приема ответов.
// Повторная активация уже открытого вопроса проходит как no-op.
func (s *SessionService) ActivateQuestion(presenterID, sessionID, questionID uint) error {
	if _, err := s.GetForPresenter(presenterID, sessionID); err != nil {
		return err
	}
	if _, err := s.questionRepo.GetByID(questionID); err != nil {
		return err
	}

	if err := s.sessionRepo.ActivateQuestion(sessionID, questionID); err != nil {
		return mapSessionRepoError(err)
	}

	s.writeActiveQuestionCache(sessionID, activeQuestionCacheEntry{
		QuestionID: questionID,
		Status:     entity.QuestionStatusOpen,
	})

	log.Printf("[SessionService] Вопрос %d открыт в сессии %d", questionID, sessionID)
	return nil
}

// CloseQuestion прекращает прием ответов на активный вопрос
func (s *SessionService) CloseQuestion(presenterID, sessionID, questionID uint) error {
	if _, err := s.GetForPresenter(presenterID, sessionID); err != nil {
		return err
	}

	if err := s.sessionRepo.CloseQuestion(sessionID, questionID); err != nil {
		return mapSessionRepoError(err)
	}

	s.writeActiveQuestionCache(sessionID, activeQuestionCacheEntry{
		QuestionID: questionID,
		Status:     entity.QuestionStatusClosed,
	})

	log.Printf("[SessionService] Вопрос %d закрыт в сессии %d", questionID, sessionID)
	return nil
}

// End завершает сессию. Открытый вопрос закрывается, подключение и
// прием ответов прекращаются, преподавателю отправляется письмо с итогами.
func (s *SessionService) End(ctx context.Context, presenterID, sessionID uint) error {
	session, err := s.GetForPresenter(presenterID, sessionID)
	if err != nil {
		return err
	}

	if err := s.sessionRepo.End(sessionID); err != nil {
		return mapSessionRepoError(err)
	}

	s.writeActiveQuestionCache(sessionID, activeQuestionCacheEntry{SessionEnd: true})

	log.Printf("[SessionService] Сессия %d завершена", sessionID)

	s.sendSummaryEmail(ctx, session)
	return nil
}

func (s *SessionService) sendSummaryEmail(ctx context.Context, session *entity.ClassSession) {
	if s.emailService == nil || s.resultService == nil {
		return
	}

	presenter, err := s.userRepo.GetByID(session.PresenterID)
	if err != nil {
		log.Printf("[SessionService] Не удалось получить преподавателя %d для письма с итогами: %v", session.PresenterID, err)
		return
	}

	textBody, htmlBody, err := s.resultService.RenderSummary(session.ID)
	if err != nil {
		log.Printf("[SessionService] Не удалось собрать итоги сессии %d: %v", session.ID, err)
		return
	}

	// Письмо не должно задерживать ответ преподавателю
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.emailService.SendSessionSummary(sendCtx, presenter.Email, session.SessionCode, textBody, htmlBody); err != nil {
			log.Printf("[SessionService] Не удалось отправить итоги сессии %d на %s: %v", session.ID, presenter.Email, err)
		}
	}()
}

// CurrentQuestion возвращает состояние слота активного вопроса для
// поллинга студентов. Сначала пробует кеш, затем базу.
func (s *SessionService) CurrentQuestion(sessionID uint) (*ActiveQuestionView, error) {
	entry, fromCache := s.readActiveQuestionCache(sessionID)
	if !fromCache {
		session, err := s.sessionRepo.GetByID(sessionID)
		if err != nil {
			return nil, err
		}

		entry = activeQuestionCacheEntry{SessionEnd: !session.IsActive}
		if active, ok := session.ActiveQuestion(); ok {
			entry.QuestionID = active.QuestionID
			entry.Status = active.Status
		}
		s.writeActiveQuestionCache(sessionID, entry)
	}

	if entry.SessionEnd {
		return nil, fmt.Errorf("%w: session has ended", apperrors.ErrSessionInactive)
	}

	switch entry.Status {
	case entity.QuestionStatusOpen:
		question, err := s.questionRepo.GetByID(entry.QuestionID)
		if err != nil {
			return nil, err
		}
		return &ActiveQuestionView{
			Status: entity.QuestionStatusOpen,
			Question: &QuestionView{
				ID:      question.ID,
				RefID:   question.QuestionRefID,
				Text:    question.Text,
				Options: question.Options,
			},
		}, nil
	case entity.QuestionStatusClosed:
		return &ActiveQuestionView{Status: entity.QuestionStatusClosed}, nil
	default:
		return &ActiveQuestionView{Status: "none"}, nil
	}
}

func (s *SessionService) activeQuestionCacheKey(sessionID uint) string {
	return fmt.Sprintf("session:%d:active_question", sessionID)
}

func (s *SessionService) readActiveQuestionCache(sessionID uint) (activeQuestionCacheEntry, bool) {
	if s.cacheRepo == nil {
		return activeQuestionCacheEntry{}, false
	}
	var entry activeQuestionCacheEntry
	if err := s.cacheRepo.GetJSON(s.activeQuestionCacheKey(sessionID), &entry); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[SessionService] Ошибка чтения кеша активного вопроса сессии %d: %v", sessionID, err)
		}
		return activeQuestionCacheEntry{}, false
	}
	return entry, true
}

func (s *SessionService) writeActiveQuestionCache(sessionID uint, entry activeQuestionCacheEntry) {
	if s.cacheRepo == nil {
		return
	}
	key := s.activeQuestionCacheKey(sessionID)
	if err := s.cacheRepo.SetJSON(key, entry, activeQuestionCacheTTL); err != nil {
		log.Printf("[SessionService] Ошибка записи кеша активного вопроса сессии %d: %v", sessionID, err)
		// Не удалось перезаписать - инвалидируем, чтобы поллинг не читал
		// устаревшее состояние слота до истечения TTL
		if delErr := s.cacheRepo.Delete(key); delErr != nil {
			log.Printf("[SessionService] Ошибка инвалидации кеша сессии %d: %v", sessionID, delErr)
		}
	}
}

// mapSessionRepoError переводит ошибки слоя репозитория в прикладные
func mapSessionRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrSessionEnded):
		return fmt.Errorf("%w: %v", apperrors.ErrSessionInactive, err)
	case errors.Is(err, repository.ErrAnotherQuestionOpen),
		errors.Is(err, repository.ErrQuestionMismatch),
		errors.Is(err, repository.ErrQuestionAlreadyClosed):
		return fmt.Errorf("%w: %v", apperrors.ErrStateConflict, err)
	default:
		return err
	}
}
