package entities

import (
	"essaydesk/pkg/types"
)

// OrderFile - файл, привязанный к заказу. Path принадлежит внешнему
// файловому хранилищу, здесь хранится только ссылка.
type OrderFile struct {
	ID      uint64 `json:"id"`
	OrderID uint64 `json:"order_id"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	Type    string `json:"type"`

	types.BaseEntity
}
