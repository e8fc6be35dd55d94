package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/croppulse/farm-boundary-service/internal/pkg/utils"
	"github.com/croppulse/farm-boundary-service/internal/usecase"
)

// FarmHandler serves farm records and cross-farm queries.
type FarmHandler struct {
	boundaryUC *usecase.BoundaryUseCase
	logger     *zap.Logger
}

func NewFarmHandler(boundaryUC *usecase.BoundaryUseCase, logger *zap.Logger) *FarmHandler {
	return &FarmHandler{
		boundaryUC: boundaryUC,
		logger:     logger,
	}
}

// GetFarm godoc
// @Summary Get a farm record
// @Tags Farms
// @Produce json
// @Param id path string true "Farm ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.Farm}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/farms/{id} [get]
func (h *FarmHandler) GetFarm(c *fiber.Ctx) error {
	farmID, err := parseFarmID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	farm, err := h.boundaryUC.GetFarm(c.Context(), farmID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, farm, nil)
}

// GetDistance godoc
// @Summary Distance between two farm centers
// @Description Great-circle distance in meters, kilometers and miles.
// @Tags Farms
// @Produce json
// @Param a path string true "From farm ID"
// @Param b path string true "To farm ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.DistanceResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/farms/{a}/distance/{b} [get]
func (h *FarmHandler) GetDistance(c *fiber.Ctx) error {
	fromID, err := parseFarmID(c, "a")
	if err != nil {
		return utils.SendError(c, err)
	}
	toID, err := parseFarmID(c, "b")
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.boundaryUC.DistanceBetweenFarms(c.Context(), fromID, toID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}
