package entities

import (
	"essaydesk/pkg/constants"

	"github.com/aarondl/null/v8"
)

// MessageIntent - намерение создать сообщение по заказу в рамках перехода.
type MessageIntent struct {
	Kind    string
	Message string
}

// FileIntent - намерение записать файл, привязанный к заказу.
type FileIntent struct {
	Name string
	Path string
	Size int64
	Type string
}

// OrderTransition - результат успешной валидации перехода: новый статус,
// изменения полей и побочные записи. Всё применяется одной транзакцией,
// либо не применяется вовсе.
type OrderTransition struct {
	NewStatus constants.OrderStatus

	ExecutorID      null.Uint64
	AssignedAt      null.Time
	AdminNotes      null.String
	CompletionNotes null.String
	CompletedAt     null.Time
	RejectionReason null.String
	RejectedAt      null.Time
	RevisionCount   null.Int

	Messages []MessageIntent
	Files    []FileIntent
}
