package dto

// CreateOrderDTO - конфигурация заказа из пошагового конфигуратора клиента.
type CreateOrderDTO struct {
	AssignmentType  string   `json:"assignment_type" validate:"required,min=2,max=100"`
	ServiceType     string   `json:"service_type" validate:"required,min=2,max=100"`
	AcademicLevelID uint64   `json:"academic_level_id" validate:"required,gt=0"`
	SubjectID       uint64   `json:"subject_id" validate:"required,gt=0"`
	DeadlineID      uint64   `json:"deadline_id" validate:"required,gt=0"`
	Language        string   `json:"language" validate:"required,min=2,max=50"`
	Pages           int      `json:"pages" validate:"required,gte=1"`
	SpacingCode     string   `json:"spacing_code" validate:"required"`
	Instructions    string   `json:"instructions,omitempty"`
	AddonIDs        []uint64 `json:"addon_ids,omitempty" validate:"omitempty,unique"`

	// Submit=true - заказ отправлен (pending), иначе остаётся черновиком.
	Submit bool `json:"submit"`
}

// RecalculateOrderDTO - частичное изменение конфигурации с перерасчётом цены.
type RecalculateOrderDTO struct {
	AcademicLevelID *uint64   `json:"academic_level_id,omitempty" validate:"omitempty,gt=0"`
	DeadlineID      *uint64   `json:"deadline_id,omitempty" validate:"omitempty,gt=0"`
	Pages           *int      `json:"pages,omitempty" validate:"omitempty,gte=1"`
	SpacingCode     *string   `json:"spacing_code,omitempty"`
	AddonIDs        *[]uint64 `json:"addon_ids,omitempty" validate:"omitempty,unique"`
}

type AssignOrderDTO struct {
	ExecutorID uint64 `json:"executor_id" validate:"required,gt=0"`
	AdminNotes string `json:"admin_notes,omitempty"`
}

type CompleteOrderDTO struct {
	Notes string `json:"notes" validate:"required,min=3"`
}

type RejectOrderDTO struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

type RequestRevisionDTO struct {
	Comment string `json:"comment,omitempty"`
}

type SetStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

type BreakdownLineDTO struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

type OrderDTO struct {
	ID       uint64 `json:"id"`
	ClientID uint64 `json:"client_id"`

	AssignmentType string `json:"assignment_type"`
	ServiceType    string `json:"service_type"`

	AcademicLevelID   uint64 `json:"academic_level_id"`
	AcademicLevelName string `json:"academic_level_name,omitempty"`
	SubjectID         uint64 `json:"subject_id"`
	SubjectName       string `json:"subject_name,omitempty"`
	DeadlineID        uint64 `json:"deadline_id"`
	DeadlineName      string `json:"deadline_name,omitempty"`

	Language     string   `json:"language"`
	Pages        int      `json:"pages"`
	SpacingCode  string   `json:"spacing_code"`
	Instructions string   `json:"instructions,omitempty"`
	AddonIDs     []uint64 `json:"addon_ids"`

	TotalPrice string             `json:"total_price"`
	Breakdown  []BreakdownLineDTO `json:"breakdown"`

	Status string `json:"status"`

	ExecutorID      *uint64 `json:"executor_id,omitempty"`
	AssignedAt      string  `json:"assigned_at,omitempty"`
	AdminNotes      string  `json:"admin_notes,omitempty"`
	CompletionNotes string  `json:"completion_notes,omitempty"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
	CompletedAt     string  `json:"completed_at,omitempty"`
	RejectedAt      string  `json:"rejected_at,omitempty"`
	RevisionCount   int     `json:"revision_count"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
