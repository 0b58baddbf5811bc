package middleware

import (
	stderrors "errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/damage-assessment-api/internal/observability"
)

// Metrics - счётчики и латентность запросов по шаблону маршрута.
// Должен стоять после Logger, чтобы видеть ошибку до ErrorHandler.
func Metrics(m *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if stderrors.As(err, &fe) {
				status = fe.Code
				if fe.Code == fiber.StatusNotFound {
					// маршрут не найден, шаблона нет
					route = "unmatched"
				}
			}
		}

		m.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}
