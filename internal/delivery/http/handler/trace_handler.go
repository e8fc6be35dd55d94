package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/croppulse/farm-boundary-service/internal/pkg/errors"
	"github.com/croppulse/farm-boundary-service/internal/pkg/utils"
	"github.com/croppulse/farm-boundary-service/internal/pkg/validator"
	"github.com/croppulse/farm-boundary-service/internal/usecase"
	"github.com/croppulse/farm-boundary-service/internal/usecase/dto"
)

// TraceHandler serves GPS walking trace processing.
type TraceHandler struct {
	traceUC *usecase.TraceUseCase
	logger  *zap.Logger
}

func NewTraceHandler(traceUC *usecase.TraceUseCase, logger *zap.Logger) *TraceHandler {
	return &TraceHandler{
		traceUC: traceUC,
		logger:  logger,
	}
}

// PreviewTrace godoc
// @Summary Score a walking trace without persisting
// @Description Runs the full pipeline (quality scoring, polygon build, smoothing, area) and returns the report. Nothing is stored.
// @Tags Traces
// @Accept json
// @Produce json
// @Param request body dto.ProcessTraceRequest true "Raw GPS readings"
// @Success 200 {object} utils.SuccessResponse{data=dto.ProcessTraceResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/traces/process [post]
func (h *TraceHandler) PreviewTrace(c *fiber.Ctx) error {
	var req dto.ProcessTraceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithReason("invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithReason(err.Error()))
	}

	return utils.SendSuccess(c, h.traceUC.PreviewTrace(req), nil)
}

// ProcessTrace godoc
// @Summary Process a walking trace for a farm
// @Description Scores the trace and, when apply is true and the trace passes the quality gate, establishes it as the farm boundary and enqueues satellite verification.
// @Tags Traces
// @Accept json
// @Produce json
// @Param id path string true "Farm ID"
// @Param request body dto.ProcessTraceRequest true "Raw GPS readings"
// @Success 200 {object} utils.SuccessResponse{data=dto.ProcessTraceResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/farms/{id}/traces [post]
func (h *TraceHandler) ProcessTrace(c *fiber.Ctx) error {
	farmID, err := parseFarmID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.ProcessTraceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithReason("invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithReason(err.Error()))
	}

	result, err := h.traceUC.ProcessTrace(c.Context(), farmID, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}
