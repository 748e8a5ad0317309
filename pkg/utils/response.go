package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	apperrors "essaydesk/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message}
	withPagination, _ := strconv.ParseBool(ctx.QueryParam("withPagination"))
	if withPagination && len(total) > 0 {
		filter := ParseFilterFromQuery(ctx.Request().URL.Query())
		totalPages := 0
		if filter.Limit > 0 {
			totalPages = int((total[0] + uint64(filter.Limit) - 1) / uint64(filter.Limit))
		}
		pagination := map[string]interface{}{
			"total_count": total[0],
			"page":        filter.Page,
			"limit":       filter.Limit,
			"total_pages": totalPages,
		}
		response.Body = map[string]interface{}{"list": body, "pagination": pagination}
	} else {
		response.Body = body
	}
	return ctx.JSON(code, response)
}

// ErrorResponse переводит типизированные ошибки ядра в HTTP-статусы.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
			)
		}
		response := map[string]interface{}{"status": false, "message": httpErr.Message}
		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		}
		return c.JSON(httpErr.Code, response)
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return fail(c, echoErr.Code, fmt.Sprintf("%v", echoErr.Message))
	}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return fail(c, http.StatusBadRequest, validationErr.Message)
	}

	var catalogErr *apperrors.UnknownCatalogEntryError
	if errors.As(err, &catalogErr) {
		return fail(c, http.StatusBadRequest, "Выбранная опция больше недоступна: "+catalogErr.Error())
	}

	var transitionErr *apperrors.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return fail(c, http.StatusConflict, transitionErr.Error())
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return fail(c, http.StatusBadRequest, "Ошибка валидации: "+strings.Join(msgs, "; "))
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrOrderLocked),
		errors.Is(err, apperrors.ErrRevisionLimitExceeded):
		return fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		return fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, apperrors.ErrEmptyAuthHeader),
		errors.Is(err, apperrors.ErrInvalidAuthHeader),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenIsNotAccess),
		errors.Is(err, apperrors.ErrUserNotFound):
		return fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperrors.ErrBadRequest):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrPersistenceFailure):
		logger.Error("Persistence Failure", zap.Error(err))
		return fail(c, http.StatusServiceUnavailable, apperrors.ErrPersistenceFailure.Error())
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return fail(c, http.StatusInternalServerError, "Внутренняя ошибка сервера")
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]interface{}{
		"status":  false,
		"message": message,
	})
}
