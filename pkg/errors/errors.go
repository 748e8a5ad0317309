package errors

import (
	"fmt"

	"essaydesk/pkg/constants"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader   = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader = fmt.Errorf("неверный формат заголовка авторизации")
	ErrForbidden         = fmt.Errorf("доступ запрещён")

	// Контекст
	ErrUserNotFound  = fmt.Errorf("пользователь не найден в контексте запроса")
	ErrInvalidUserID = fmt.Errorf("недопустимый UserID")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")

	// Жизненный цикл заказа
	ErrOrderLocked           = fmt.Errorf("заказ в финальном статусе и не подлежит изменению")
	ErrRevisionLimitExceeded = fmt.Errorf("исчерпан лимит доработок по заказу")

	// Инфраструктура. Ошибка безопасна для повтора: транзакция откачена целиком.
	ErrPersistenceFailure = fmt.Errorf("не удалось зафиксировать изменения в хранилище")
)

// ValidationError - некорректные входные данные, повтор без исправления бессмысленен.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InvalidTransitionError - запрошенное событие недопустимо из текущего статуса.
type InvalidTransitionError struct {
	From  constants.OrderStatus
	Event constants.OrderEvent
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("переход %q недопустим из статуса %q", e.Event, e.From)
}

func NewInvalidTransitionError(from constants.OrderStatus, event constants.OrderEvent) error {
	return &InvalidTransitionError{From: from, Event: event}
}

// UnknownCatalogEntryError - ссылка на отсутствующую или неактивную позицию каталога.
type UnknownCatalogEntryError struct {
	Kind string
	ID   string
}

func (e *UnknownCatalogEntryError) Error() string {
	return fmt.Sprintf("позиция каталога недоступна: %s %q", e.Kind, e.ID)
}

func NewUnknownCatalogEntryError(kind, id string) error {
	return &UnknownCatalogEntryError{Kind: kind, ID: id}
}

// HttpError - ошибка с HTTP-статусом для слоя контроллеров.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
	Context interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}
