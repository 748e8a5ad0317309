package dto

// CatalogDTO - активные справочники конфигуратора для витрины.
type CatalogDTO struct {
	BasePricePerPage string              `json:"base_price_per_page"`
	Levels           []AcademicLevelDTO  `json:"levels"`
	Deadlines        []DeadlineOptionDTO `json:"deadlines"`
	Addons           []AddonDTO          `json:"addons"`
	Spacings         []SpacingModeDTO    `json:"spacings"`
	Subjects         []SubjectDTO        `json:"subjects"`
}

type AcademicLevelDTO struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Multiplier string `json:"multiplier"`
}

type DeadlineOptionDTO struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Hours      int    `json:"hours"`
	Multiplier string `json:"multiplier"`
}

type AddonDTO struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	IsFree bool   `json:"is_free"`
}

type SpacingModeDTO struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Multiplier string `json:"multiplier"`
}

type SubjectDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
