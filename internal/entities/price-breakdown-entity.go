package entities

import (
	"github.com/shopspring/decimal"
)

// BreakdownLine - строка детализации цены.
type BreakdownLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// PriceBreakdown - итог расчёта цены. Все суммы с точностью 2 знака.
type PriceBreakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Lines    []BreakdownLine `json:"lines"`
	Total    decimal.Decimal `json:"total"`
}
