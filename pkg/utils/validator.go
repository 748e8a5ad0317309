package utils

import (
	"net/http"

	apperrors "essaydesk/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// EchoValidator адаптирует go-playground/validator под echo.Validator.
type EchoValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *EchoValidator {
	return &EchoValidator{validator: v}
}

func (v *EchoValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			return err
		}
		return apperrors.NewHttpError(http.StatusBadRequest, "Некорректные данные запроса", err, nil)
	}
	return nil
}
