package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/croppulse/farm-boundary-service/internal/pkg/utils"
	"github.com/croppulse/farm-boundary-service/internal/usecase"
)

// VerificationHandler serves satellite size verification.
type VerificationHandler struct {
	verificationUC *usecase.VerificationUseCase
	logger         *zap.Logger
}

func NewVerificationHandler(verificationUC *usecase.VerificationUseCase, logger *zap.Logger) *VerificationHandler {
	return &VerificationHandler{
		verificationUC: verificationUC,
		logger:         logger,
	}
}

// RequestVerification godoc
// @Summary Enqueue a satellite verification scan
// @Description Publishes a verification request for the worker. The farm must have a boundary.
// @Tags Verification
// @Produce json
// @Param id path string true "Farm ID"
// @Success 202 {object} utils.SuccessResponse{data=dto.RequestVerificationResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/farms/{id}/verification [post]
func (h *VerificationHandler) RequestVerification(c *fiber.Ctx) error {
	farmID, err := parseFarmID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.verificationUC.RequestVerification(c.Context(), farmID)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusAccepted)
	return utils.SendSuccess(c, result, nil)
}

// GetStatus godoc
// @Summary Current verification status
// @Description Verification flags on the farm plus the most recent satellite scan, if any.
// @Tags Verification
// @Produce json
// @Param id path string true "Farm ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.VerificationStatusResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/farms/{id}/verification [get]
func (h *VerificationHandler) GetStatus(c *fiber.Ctx) error {
	farmID, err := parseFarmID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.verificationUC.GetStatus(c.Context(), farmID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// ListScans godoc
// @Summary Scan history
// @Description Past satellite scans for the farm, newest first.
// @Tags Verification
// @Produce json
// @Param id path string true "Farm ID"
// @Param limit query int false "Maximum number of scans" default(20)
// @Success 200 {object} utils.SuccessResponse{data=dto.ScanHistoryResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/farms/{id}/verification/scans [get]
func (h *VerificationHandler) ListScans(c *fiber.Ctx) error {
	farmID, err := parseFarmID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.verificationUC.ListScans(c.Context(), farmID, c.QueryInt("limit", 20))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}
