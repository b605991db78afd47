package repository

import "errors"

var (
	// ErrAnotherQuestionOpen означает, что в сессии открыт другой вопрос:
	// его нужно закрыть до активации нового.
	ErrAnotherQuestionOpen = errors.New("another question is currently open")
	// ErrQuestionMismatch означает, что закрываемый вопрос не является активным вопросом сессии.
	ErrQuestionMismatch = errors.New("question is not the session's active question")
	// ErrQuestionAlreadyClosed означает, что активный вопрос уже не в статусе open.
	ErrQuestionAlreadyClosed = errors.New("active question is already closed")
	// ErrSessionEnded означает, что сессия уже завершена и не принимает изменений.
	ErrSessionEnded = errors.New("class session has ended")
	// ErrDuplicateResponse сигнализирует о нарушении уникальности
	// (student_id, class_session_id, question_id) на вставке ответа.
	ErrDuplicateResponse = errors.New("response already exists for this student/session/question")
)
