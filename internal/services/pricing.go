package services

import (
	"fmt"

	"essaydesk/internal/entities"
	apperrors "essaydesk/pkg/errors"

	"github.com/shopspring/decimal"
)

// PriceConfig - тарифицируемая часть конфигурации заказа.
type PriceConfig struct {
	Pages           int
	SpacingCode     string
	AcademicLevelID uint64
	DeadlineID      uint64
	AddonIDs        []uint64
}

type PriceCalculatorInterface interface {
	// Quote считает цену новой конфигурации: допускаются только активные
	// позиции каталога.
	Quote(cfg PriceConfig, catalog *entities.CatalogSnapshot) (*entities.PriceBreakdown, error)

	// Recalculate считает цену существующего заказа: ранее выбранные
	// позиции остаются действительными, даже если их успели деактивировать.
	Recalculate(cfg PriceConfig, catalog *entities.CatalogSnapshot) (*entities.PriceBreakdown, error)
}

// PriceCalculator - чистая функция цены: ни состояния, ни времени, ни I/O.
// Одинаковые вход и снимок каталога всегда дают одинаковый результат.
type PriceCalculator struct{}

func NewPriceCalculator() PriceCalculatorInterface {
	return &PriceCalculator{}
}

func (c *PriceCalculator) Quote(cfg PriceConfig, catalog *entities.CatalogSnapshot) (*entities.PriceBreakdown, error) {
	return c.compute(cfg, catalog, true)
}

func (c *PriceCalculator) Recalculate(cfg PriceConfig, catalog *entities.CatalogSnapshot) (*entities.PriceBreakdown, error) {
	return c.compute(cfg, catalog, false)
}

// compute выполняет расчёт по фиксированному порядку шагов:
//  1. subtotal = страницы * базовая цена страницы;
//  2. множители интервала, уровня, срока (именно в этом порядке);
//  3. округление subtotal до 2 знаков половинным округлением, ровно один
//     раз после всех множителей;
//  4. доп. услуги плюсуются плоско, на них множители не действуют;
//     бесплатные дают нулевую строку детализации.
func (c *PriceCalculator) compute(cfg PriceConfig, catalog *entities.CatalogSnapshot, requireActive bool) (*entities.PriceBreakdown, error) {
	if cfg.Pages < 1 {
		return nil, apperrors.NewValidationError("количество страниц должно быть не меньше 1, получено %d", cfg.Pages)
	}

	spacing, ok := catalog.Spacings[cfg.SpacingCode]
	if !ok || (requireActive && !spacing.IsActive) {
		return nil, apperrors.NewUnknownCatalogEntryError("интервал", cfg.SpacingCode)
	}

	level, ok := catalog.Levels[cfg.AcademicLevelID]
	if !ok || (requireActive && !level.IsActive) {
		return nil, apperrors.NewUnknownCatalogEntryError("уровень", fmt.Sprintf("%d", cfg.AcademicLevelID))
	}

	deadline, ok := catalog.Deadlines[cfg.DeadlineID]
	if !ok || (requireActive && !deadline.IsActive) {
		return nil, apperrors.NewUnknownCatalogEntryError("срок", fmt.Sprintf("%d", cfg.DeadlineID))
	}

	seen := make(map[uint64]struct{}, len(cfg.AddonIDs))
	for _, addonID := range cfg.AddonIDs {
		if _, dup := seen[addonID]; dup {
			return nil, apperrors.NewValidationError("доп. услуга %d выбрана более одного раза", addonID)
		}
		seen[addonID] = struct{}{}
	}

	subtotal := decimal.NewFromInt(int64(cfg.Pages)).
		Mul(catalog.BasePricePerPage).
		Mul(spacing.Multiplier).
		Mul(level.Multiplier).
		Mul(deadline.Multiplier).
		Round(2)

	total := subtotal
	lines := make([]entities.BreakdownLine, 0, len(cfg.AddonIDs))
	for _, addonID := range cfg.AddonIDs {
		addon, ok := catalog.Addons[addonID]
		if !ok || (requireActive && !addon.IsActive) {
			return nil, apperrors.NewUnknownCatalogEntryError("доп. услуга", fmt.Sprintf("%d", addonID))
		}

		amount := decimal.Zero
		if !addon.IsFree {
			amount = addon.Price.Round(2)
			total = total.Add(amount)
		}
		lines = append(lines, entities.BreakdownLine{Label: addon.Name, Amount: amount})
	}

	return &entities.PriceBreakdown{
		Subtotal: subtotal,
		Lines:    lines,
		Total:    total,
	}, nil
}
