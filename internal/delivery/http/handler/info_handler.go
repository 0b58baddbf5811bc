package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/damage-assessment-api/internal/pkg/utils"
	"github.com/damage-assessment-api/internal/usecase/dto"
)

// InfoHandler - служебные эндпоинты без обращения к данным
type InfoHandler struct{}

// NewInfoHandler создает новый экземпляр InfoHandler
func NewInfoHandler() *InfoHandler {
	return &InfoHandler{}
}

// Root godoc
// @Summary API information
// @Description Название сервиса и список эндпоинтов
// @Tags Info
// @Produce json
// @Success 200 {object} dto.InfoResponse
// @Router / [get]
func (h *InfoHandler) Root(c *fiber.Ctx) error {
	return utils.SendSuccess(c, dto.InfoResponse{
		Message: "Dominica Damage Assessment API",
		Endpoints: dto.EndpointsInfo{
			DamageSummary: "/api/damage-summary",
			HexagonStats:  "/api/hexagon-stats/{hexagon_id}",
			Health:        "/health",
			Test:          "/api/test",
		},
	})
}

// Health godoc
// @Summary Health check
// @Tags Info
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *InfoHandler) Health(c *fiber.Ctx) error {
	return utils.SendSuccess(c, dto.HealthResponse{
		Status:  "healthy",
		Service: "Dominica API",
	})
}

// Test godoc
// @Summary Connectivity test
// @Description Фиксированный ответ для проверки связи с фронтендом
// @Tags Info
// @Produce json
// @Success 200 {object} dto.TestResponse
// @Router /api/test [get]
func (h *InfoHandler) Test(c *fiber.Ctx) error {
	return utils.SendSuccess(c, dto.TestResponse{
		Message: "API is working",
		Status:  "success",
		Data:    dto.TestData{Test: 123},
	})
}
