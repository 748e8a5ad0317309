package controllers

import (
	"net/http"

	"essaydesk/internal/services"
	"essaydesk/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CatalogController struct {
	catalogService services.CatalogServiceInterface
	logger         *zap.Logger
}

func NewCatalogController(catalogService services.CatalogServiceInterface, logger *zap.Logger) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		logger:         logger,
	}
}

// GetCatalog отдаёт активные справочники конфигуратора.
func (c *CatalogController) GetCatalog(ctx echo.Context) error {
	res, err := c.catalogService.GetCatalog(ctx.Request().Context())
	if err != nil {
		c.logger.Error("Ошибка при получении каталога", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Каталог успешно получен", http.StatusOK)
}

// InvalidateCache сбрасывает кеш каталога после правок справочников.
func (c *CatalogController) InvalidateCache(ctx echo.Context) error {
	if err := c.catalogService.InvalidateCache(ctx.Request().Context()); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Кеш каталога сброшен", http.StatusOK)
}
