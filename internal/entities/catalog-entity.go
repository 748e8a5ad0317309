package entities

import (
	"github.com/shopspring/decimal"
)

// Справочники каталога цен. Админские CRUD-экраны живут вне этого ядра,
// здесь каталог только читается.

type AcademicLevel struct {
	ID         uint64          `json:"id"`
	Name       string          `json:"name"`
	Multiplier decimal.Decimal `json:"multiplier"`
	IsActive   bool            `json:"is_active"`
}

type DeadlineOption struct {
	ID         uint64          `json:"id"`
	Name       string          `json:"name"`
	Hours      int             `json:"hours"`
	Multiplier decimal.Decimal `json:"multiplier"`
	IsActive   bool            `json:"is_active"`
}

type Addon struct {
	ID       uint64          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	IsFree   bool            `json:"is_free"`
	IsActive bool            `json:"is_active"`
}

type SpacingMode struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Multiplier decimal.Decimal `json:"multiplier"`
	IsActive   bool            `json:"is_active"`
}

type Subject struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// CatalogSnapshot - неизменяемый снимок каталога на момент расчёта.
// Содержит и неактивные позиции: для перерасчёта существующих заказов
// ранее выбранные позиции остаются действительными.
type CatalogSnapshot struct {
	BasePricePerPage decimal.Decimal           `json:"base_price_per_page"`
	Spacings         map[string]SpacingMode    `json:"spacings"`
	Levels           map[uint64]AcademicLevel  `json:"levels"`
	Deadlines        map[uint64]DeadlineOption `json:"deadlines"`
	Addons           map[uint64]Addon          `json:"addons"`
	Subjects         map[uint64]Subject        `json:"subjects"`
}
