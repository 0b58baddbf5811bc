package handler

import (
	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/damage-assessment-api/internal/pkg/utils"
	"github.com/damage-assessment-api/internal/pkg/validator"
	"github.com/damage-assessment-api/internal/usecase"
	"github.com/damage-assessment-api/internal/usecase/dto"
)

const (
	summaryErrorPrefix = "Error processing data: "
	hexagonErrorPrefix = "Error processing hexagon data: "
)

// DamageHandler - обработчик запросов статистики повреждений
type DamageHandler struct {
	damageUC *usecase.DamageUseCase
	logger   *zap.Logger
	strict   bool
}

// NewDamageHandler создает новый экземпляр DamageHandler.
// strict включает HTTP-статусы 4xx/5xx для ошибок.
func NewDamageHandler(damageUC *usecase.DamageUseCase, logger *zap.Logger, strict bool) *DamageHandler {
	return &DamageHandler{
		damageUC: damageUC,
		logger:   logger,
		strict:   strict,
	}
}

// GetDamageSummary godoc
// @Summary Damage summary
// @Description Количество зданий по категориям повреждений во всём наборе данных
// @Tags Damage
// @Produce json
// @Success 200 {object} domain.DamageSummary
// @Failure 422 {object} utils.ErrorResponse "Нет колонки категории (статус 200, если строгий режим выключен)"
// @Failure 503 {object} utils.ErrorResponse "Файл данных недоступен"
// @Router /api/damage-summary [get]
func (h *DamageHandler) GetDamageSummary(c *fiber.Ctx) error {
	summary, err := h.damageUC.GetDamageSummary(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to compute damage summary", zap.Error(err))
		return utils.SendError(c, err, summaryErrorPrefix, h.strict)
	}
	return utils.SendSuccess(c, summary)
}

// GetHexagonStats godoc
// @Summary Hexagon statistics
// @Description Количество зданий строго внутри гексагона по категориям повреждений
// @Tags Damage
// @Produce json
// @Param hexagon_id path string true "Идентификатор гексагона"
// @Success 200 {object} domain.HexagonStats
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse "Гексагон не найден (статус 200, если строгий режим выключен)"
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/hexagon-stats/{hexagon_id} [get]
func (h *DamageHandler) GetHexagonStats(c *fiber.Ctx) error {
	req := dto.HexagonStatsRequest{
		HexagonID: fiberutils.CopyString(c.Params("hexagon_id")),
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err, hexagonErrorPrefix, h.strict)
	}

	stats, err := h.damageUC.GetHexagonStats(c.UserContext(), req.HexagonID)
	if err != nil {
		h.logger.Warn("Failed to compute hexagon stats",
			zap.String("hexagon_id", req.HexagonID),
			zap.Error(err),
		)
		return utils.SendError(c, err, hexagonErrorPrefix, h.strict)
	}
	return utils.SendSuccess(c, stats)
}
