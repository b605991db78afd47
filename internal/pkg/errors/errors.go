package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок аутентификации (неверный токен, неверные учётные данные).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда пользователь не является презентатором сессии.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrSessionInactive используется, когда сессия уже завершена презентатором.
	ErrSessionInactive = errors.New("class session is not active")

	// ErrQuestionNotOpen используется, когда ответ пришёл не на активный открытый вопрос:
	// вопрос ещё не активирован, уже закрыт, либо id не совпадает с активным.
	ErrQuestionNotOpen = errors.New("question is not open for answers")

	// ErrDuplicateSubmission используется при повторном ответе студента на тот же вопрос сессии.
	ErrDuplicateSubmission = errors.New("answer already submitted for this question")

	// ErrStateConflict используется для нелегальных переходов машины состояний активного вопроса
	// (например, попытка активировать вопрос, пока открыт другой).
	ErrStateConflict = errors.New("active question state conflict")

	// ErrPersistence используется для ошибок коммита/констрейнтов, не классифицированных иначе.
	// Наружу транслируется как общий "попробуйте ещё раз", без деталей стораджа.
	ErrPersistence = errors.New("persistence failure")
)
