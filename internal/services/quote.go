package services

import (
	"context"

	"essaydesk/internal/dto"
)

type QuoteServiceInterface interface {
	Quote(ctx context.Context, payload dto.QuoteRequestDTO) (*dto.QuoteDTO, error)
}

// QuoteService считает предварительную цену без создания заказа.
type QuoteService struct {
	catalogService CatalogServiceInterface
	calculator     PriceCalculatorInterface
}

func NewQuoteService(catalogService CatalogServiceInterface, calculator PriceCalculatorInterface) QuoteServiceInterface {
	return &QuoteService{catalogService: catalogService, calculator: calculator}
}

func (s *QuoteService) Quote(ctx context.Context, payload dto.QuoteRequestDTO) (*dto.QuoteDTO, error) {
	snapshot, err := s.catalogService.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.calculator.Quote(PriceConfig{
		Pages:           payload.Pages,
		SpacingCode:     payload.SpacingCode,
		AcademicLevelID: payload.AcademicLevelID,
		DeadlineID:      payload.DeadlineID,
		AddonIDs:        payload.AddonIDs,
	}, snapshot)
	if err != nil {
		return nil, err
	}

	quote := &dto.QuoteDTO{
		Subtotal: breakdown.Subtotal.StringFixed(2),
		Lines:    make([]dto.BreakdownLineDTO, 0, len(breakdown.Lines)),
		Total:    breakdown.Total.StringFixed(2),
	}
	for _, line := range breakdown.Lines {
		quote.Lines = append(quote.Lines, dto.BreakdownLineDTO{
			Label:  line.Label,
			Amount: line.Amount.StringFixed(2),
		})
	}
	return quote, nil
}
