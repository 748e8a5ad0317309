package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"

	"essaydesk/internal/dto"
	"essaydesk/internal/services"
	"essaydesk/pkg/constants"
	"essaydesk/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type OrderController struct {
	orderService services.OrderServiceInterface
	logger       *zap.Logger
}

func NewOrderController(orderService services.OrderServiceInterface, logger *zap.Logger) *OrderController {
	return &OrderController{
		orderService: orderService,
		logger:       logger,
	}
}

func (c *OrderController) GetOrders(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, totalCount, err := c.orderService.GetOrders(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("Ошибка при получении списка заказов из сервиса", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Заказы успешно получены", http.StatusOK, totalCount)
}

func (c *OrderController) FindOrder(ctx echo.Context) error {
	id, err := parseOrderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.FindOrder(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заказ успешно получен", http.StatusOK)
}

func (c *OrderController) CreateOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	clientID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		c.logger.Error("CreateOrder: не удалось получить clientID из контекста", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.CreateOrder(reqCtx, clientID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заказ успешно создан", http.StatusCreated)
}

func (c *OrderController) AssignOrder(ctx echo.Context) error {
	id, actorID, err := c.transitionContext(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AssignOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.ApplyTransition(ctx.Request().Context(), id, constants.EventAssign, services.TransitionPayload{
		ActorID:    actorID,
		ExecutorID: payload.ExecutorID,
		AdminNotes: payload.AdminNotes,
	}, nil)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заказ назначен исполнителю", http.StatusOK)
}

// CompleteOrder принимает multipart: JSON в поле 'data' и файлы работы в 'files'.
func (c *OrderController) CompleteOrder(ctx echo.Context) error {
	id, actorID, err := c.transitionContext(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	dataString := ctx.FormValue("data")
	if dataString == "" {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "поле 'data' с JSON данными не найдено"), c.logger)
	}
	var payload dto.CompleteOrderDTO
	if err := json.Unmarshal([]byte(dataString), &payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректный JSON в поле 'data'"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var uploads []*multipart.FileHeader
	if form, err := ctx.MultipartForm(); err == nil && form != nil {
		uploads = form.File["files"]
	}

	res, err := c.orderService.ApplyTransition(ctx.Request().Context(), id, constants.EventComplete, services.TransitionPayload{
		ActorID:         actorID,
		CompletionNotes: payload.Notes,
	}, uploads)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заказ завершён", http.StatusOK)
}

func (c *OrderController) RejectOrder(ctx echo.Context) error {
	id, actorID, err := c.transitionContext(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.RejectOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.ApplyTransition(ctx.Request().Context(), id, constants.EventReject, services.TransitionPayload{
		ActorID:         actorID,
		RejectionReason: payload.Reason,
	}, nil)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заказ отклонён", http.StatusOK)
}

func (c *OrderController) RequestRevision(ctx echo.Context) error {
	id, actorID, err := c.transitionContext(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.RequestRevisionDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.ApplyTransition(ctx.Request().Context(), id, constants.EventRequestRevision, services.TransitionPayload{
		ActorID:         actorID,
		RevisionComment: payload.Comment,
	}, nil)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заказ отправлен на доработку", http.StatusOK)
}

func (c *OrderController) SetStatus(ctx echo.Context) error {
	id, actorID, err := c.transitionContext(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.SetStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	target, err := constants.ToOrderStatus(payload.Status)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, err.Error()), c.logger)
	}

	res, err := c.orderService.ApplyTransition(ctx.Request().Context(), id, constants.EventSetStatus, services.TransitionPayload{
		ActorID:      actorID,
		TargetStatus: target,
	}, nil)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Статус заказа изменён", http.StatusOK)
}

func (c *OrderController) RecalculateOrder(ctx echo.Context) error {
	id, err := parseOrderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.RecalculateOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.RecomputePrice(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Цена заказа пересчитана", http.StatusOK)
}

func (c *OrderController) GetOrderMessages(ctx echo.Context) error {
	id, err := parseOrderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.GetOrderMessages(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Сообщения заказа получены", http.StatusOK)
}

func (c *OrderController) GetOrderFiles(ctx echo.Context) error {
	id, err := parseOrderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.GetOrderFiles(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Файлы заказа получены", http.StatusOK)
}

func (c *OrderController) transitionContext(ctx echo.Context) (uint64, uint64, error) {
	id, err := parseOrderID(ctx)
	if err != nil {
		return 0, 0, err
	}
	actorID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return 0, 0, err
	}
	return id, actorID, nil
}

func parseOrderID(ctx echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "некорректный ID заказа")
	}
	return id, nil
}
