package dto

// QuoteRequestDTO - запрос предварительного расчёта цены без создания заказа.
type QuoteRequestDTO struct {
	AcademicLevelID uint64   `json:"academic_level_id" validate:"required,gt=0"`
	DeadlineID      uint64   `json:"deadline_id" validate:"required,gt=0"`
	Pages           int      `json:"pages" validate:"required,gte=1"`
	SpacingCode     string   `json:"spacing_code" validate:"required"`
	AddonIDs        []uint64 `json:"addon_ids,omitempty" validate:"omitempty,unique"`
}

type QuoteDTO struct {
	Subtotal string             `json:"subtotal"`
	Lines    []BreakdownLineDTO `json:"lines"`
	Total    string             `json:"total"`
}
