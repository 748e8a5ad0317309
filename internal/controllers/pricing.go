package controllers

import (
	"net/http"

	"essaydesk/internal/dto"
	"essaydesk/internal/services"
	"essaydesk/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type PricingController struct {
	quoteService services.QuoteServiceInterface
	logger       *zap.Logger
}

func NewPricingController(quoteService services.QuoteServiceInterface, logger *zap.Logger) *PricingController {
	return &PricingController{
		quoteService: quoteService,
		logger:       logger,
	}
}

// Quote - публичный предварительный расчёт цены для конфигуратора.
func (c *PricingController) Quote(ctx echo.Context) error {
	var payload dto.QuoteRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.quoteService.Quote(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Цена успешно рассчитана", http.StatusOK)
}
