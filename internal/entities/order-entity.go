package entities

import (
	"essaydesk/pkg/constants"
	"essaydesk/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
)

// Order - заказ на письменную работу.
type Order struct {
	ID       uint64 `json:"id"`
	ClientID uint64 `json:"client_id"`

	// Конфигурация, выбранная клиентом в конфигураторе.
	AssignmentType  string   `json:"assignment_type"`
	ServiceType     string   `json:"service_type"`
	AcademicLevelID uint64   `json:"academic_level_id"`
	SubjectID       uint64   `json:"subject_id"`
	DeadlineID      uint64   `json:"deadline_id"`
	Language        string   `json:"language"`
	Pages           int      `json:"pages"`
	SpacingCode     string   `json:"spacing_code"`
	Instructions    string   `json:"instructions"`
	AddonIDs        []uint64 `json:"addon_ids"`

	// Производные поля: всегда результат калькулятора цены,
	// вручную не редактируются.
	TotalPrice decimal.Decimal `json:"total_price"`
	Breakdown  PriceBreakdown  `json:"breakdown"`

	Status constants.OrderStatus `json:"status"`

	// Поля исполнителя.
	ExecutorID      null.Uint64 `json:"executor_id"`
	AssignedAt      null.Time   `json:"assigned_at"`
	AdminNotes      null.String `json:"admin_notes"`
	CompletionNotes null.String `json:"completion_notes"`
	RejectionReason null.String `json:"rejection_reason"`
	CompletedAt     null.Time   `json:"completed_at"`
	RejectedAt      null.Time   `json:"rejected_at"`
	RevisionCount   int         `json:"revision_count"`

	types.BaseEntity
}
