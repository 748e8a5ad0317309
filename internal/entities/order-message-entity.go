package entities

import (
	"essaydesk/pkg/types"
)

// OrderMessage - запись переписки/аудита по заказу. Только добавление,
// редактирование и удаление не предусмотрены.
type OrderMessage struct {
	ID       uint64 `json:"id"`
	OrderID  uint64 `json:"order_id"`
	SenderID uint64 `json:"sender_id"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`

	types.BaseEntity
}
