package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/damage-assessment-api/internal/pkg/errors"
)

// ErrorResponse - тело ответа с ошибкой. Форма совпадает с тем, что ожидает фронтенд.
type ErrorResponse struct {
	Error            string   `json:"error"`
	AvailableColumns []string `json:"available_columns,omitempty"`
}

// SendSuccess отдаёт результат как есть, без обёртки
func SendSuccess(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

// SendError пишет ошибку в формате {"error": ...}. prefix добавляется к
// необработанным ошибкам. При strict=false статус всегда 200.
func SendError(c *fiber.Ctx, err error, prefix string, strict bool) error {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.Processing(err)
	}

	resp := ErrorResponse{}
	switch appErr.Code {
	case errors.CodeHexagonNotFound, errors.CodeInvalidRequest:
		resp.Error = appErr.Message
	case errors.CodeSchemaMismatch:
		resp.Error = appErr.Message
		resp.AvailableColumns = availableColumns(appErr)
	default:
		resp.Error = prefix + appErr.Detail()
	}

	status := fiber.StatusOK
	if strict {
		status = appErr.StatusCode
	}
	return c.Status(status).JSON(resp)
}

func availableColumns(e *errors.AppError) []string {
	cols, _ := e.Details["available_columns"].([]string)
	if cols == nil {
		return []string{}
	}
	return cols
}
