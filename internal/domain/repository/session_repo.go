package repository

import (
	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// SessionRepository определяет методы для работы с сессиями занятий.
// Все переходы слота активного вопроса выполняются атомарными условными
// UPDATE'ами: проверка легальности и запись - одно действие на стороне базы,
// чтобы гонки двух вкладок презентатора разрешал сам Postgres.
type SessionRepository interface {
	Create(session *entity.ClassSession) error
	GetByID(id uint) (*entity.ClassSession, error)
	// GetActiveByCode ищет сессию по коду только среди активных:
	// завершённая сессия по своему коду не находится никогда.
	GetActiveByCode(code string) (*entity.ClassSession, error)
	ListByPresenter(presenterID uint) ([]entity.ClassSession, error)

	// AddMember идемпотентно добавляет студента в сессию (ON CONFLICT DO NOTHING).
	// Повторное добавление - no-op, не ошибка.
	AddMember(sessionID, userID uint) error
	IsMember(sessionID, userID uint) (bool, error)
	// ListMembers возвращает участников сессии в порядке присоединения
	ListMembers(sessionID uint) ([]entity.User, error)
	CountMembers(sessionID uint) (int64, error)

	// ActivateQuestion переводит слот в open(questionID).
	// Легально, только если сейчас не открыт другой вопрос; повторная
	// активация уже открытого вопроса проходит как no-op.
	// Ошибки: ErrAnotherQuestionOpen, ErrSessionEnded.
	ActivateQuestion(sessionID, questionID uint) error

	// CloseQuestion переводит open(questionID) -> closed(questionID).
	// Ошибки: ErrQuestionMismatch (активен другой вопрос или none),
	// ErrQuestionAlreadyClosed, ErrSessionEnded.
	CloseQuestion(sessionID, questionID uint) error

	// End деактивирует сессию; открытый вопрос закрывается тем же UPDATE'ом.
	// Повторное завершение - ErrSessionEnded. Необратимо.
	End(sessionID uint) error
}
