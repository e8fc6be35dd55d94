package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/croppulse/farm-boundary-service/internal/pkg/errors"
	"github.com/croppulse/farm-boundary-service/internal/pkg/utils"
	"github.com/croppulse/farm-boundary-service/internal/pkg/validator"
	"github.com/croppulse/farm-boundary-service/internal/usecase"
	"github.com/croppulse/farm-boundary-service/internal/usecase/dto"
)

// BoundaryHandler serves boundary creation, inspection and geometry tools.
type BoundaryHandler struct {
	boundaryUC *usecase.BoundaryUseCase
	logger     *zap.Logger
}

func NewBoundaryHandler(boundaryUC *usecase.BoundaryUseCase, logger *zap.Logger) *BoundaryHandler {
	return &BoundaryHandler{
		boundaryUC: boundaryUC,
		logger:     logger,
	}
}

func parseFarmID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidFarmID
	}
	return id, nil
}

// Validate godoc
// @Summary Validate boundary points
// @Description Checks an ordered point list without persisting anything: coordinate range, duplicates, closure, operating region, shape anomalies.
// @Tags Boundaries
// @Accept json
// @Produce json
// @Param request body dto.CreateBoundaryRequest true "Boundary points"
// @Success 200 {object} utils.SuccessResponse{data=dto.ValidationResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/boundaries/validate [post]
func (h *BoundaryHandler) Validate(c *fiber.Ctx) error {
	var req dto.CreateBoundaryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithReason("invalid request body"))
	}

	return utils.SendSuccess(c, h.boundaryUC.ValidateBoundary(req), nil)
}

// ComputeArea godoc
// @Summary Compute area for raw points
// @Description Stateless area, perimeter and shape complexity for an arbitrary point set.
// @Tags Boundaries
// @Accept json
// @Produce json
// @Param request body dto.AreaRequest true "Points"
// @Success 200 {object} utils.SuccessResponse{data=dto.AreaResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/boundaries/area [post]
func (h *BoundaryHandler) ComputeArea(c *fiber.Ctx) error {
	var req dto.AreaRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithReason("invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithReason(err.Error()))
	}

	result, err := h.boundaryUC.ComputeArea(req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// CreateBoundary godoc
// @Summary Create or replace a farm boundary
// @Description Validates the points, persists the boundary atomically and recomputes the farm's derived sizes. Shape anomalies and overlaps are reported but do not block creation.
// @Tags Boundaries
// @Accept json
// @Produce json
// @Param id path string true "Farm ID"
// @Param request body dto.CreateBoundaryRequest true "Boundary points"
// @Success 200 {object} utils.SuccessResponse{data=dto.BoundaryResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/farms/{id}/boundary [post]
func (h *BoundaryHandler) CreateBoundary(c *fiber.Ctx) error {
	farmID, err := parseFarmID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.CreateBoundaryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithReason("invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithReason(err.Error()))
	}

	result, err := h.boundaryUC.CreateBoundary(c.Context(), farmID, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// GetBoundary godoc
// @Summary Get the current boundary report
// @Tags Boundaries
// @Produce json
// @Param id path string true "Farm ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.BoundaryResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/farms/{id}/boundary [get]
func (h *BoundaryHandler) GetBoundary(c *fiber.Ctx) error {
	farmID, err := parseFarmID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.boundaryUC.GetBoundary(c.Context(), farmID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// GetGeoJSON godoc
// @Summary Export the boundary as a GeoJSON feature
// @Description Returns a Feature with farm properties; responses are cached.
// @Tags Boundaries
// @Produce json
// @Param id path string true "Farm ID"
// @Success 200 {object} object
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/farms/{id}/boundary/geojson [get]
func (h *BoundaryHandler) GetGeoJSON(c *fiber.Ctx) error {
	farmID, err := parseFarmID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	data, err := h.boundaryUC.ToGeoJSON(c.Context(), farmID)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/geo+json")
	return c.Send(data)
}

// ImportGeoJSON godoc
// @Summary Establish a boundary from GeoJSON
// @Description Accepts a Polygon feature or bare geometry; only the outer ring is used.
// @Tags Boundaries
// @Accept json
// @Produce json
// @Param id path string true "Farm ID"
// @Param request body dto.GeoJSONBoundaryRequest true "GeoJSON polygon"
// @Success 200 {object} utils.SuccessResponse{data=dto.BoundaryResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/farms/{id}/boundary/geojson [post]
func (h *BoundaryHandler) ImportGeoJSON(c *fiber.Ctx) error {
	farmID, err := parseFarmID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.GeoJSONBoundaryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithReason("invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithReason(err.Error()))
	}

	result, err := h.boundaryUC.FromGeoJSON(c.Context(), farmID, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// GetVertices godoc
// @Summary List the persisted boundary vertices in walk order
// @Tags Boundaries
// @Produce json
// @Param id path string true "Farm ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.VerticesResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/farms/{id}/boundary/vertices [get]
func (h *BoundaryHandler) GetVertices(c *fiber.Ctx) error {
	farmID, err := parseFarmID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.boundaryUC.BoundaryVertices(c.Context(), farmID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}

// GetAccuracy godoc
// @Summary Aggregate per-vertex GPS accuracy
// @Tags Boundaries
// @Produce json
// @Param id path string true "Farm ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.BoundaryAccuracy}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/farms/{id}/boundary/accuracy [get]
func (h *BoundaryHandler) GetAccuracy(c *fiber.Ctx) error {
	farmID, err := parseFarmID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.boundaryUC.BoundaryAccuracy(c.Context(), farmID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// Simplify godoc
// @Summary Simplify the stored boundary
// @Description Non-destructive Douglas-Peucker pass; returns the reduced ring without replacing the stored boundary.
// @Tags Boundaries
// @Accept json
// @Produce json
// @Param id path string true "Farm ID"
// @Param request body dto.SimplifyRequest true "Tolerance in meters"
// @Success 200 {object} utils.SuccessResponse{data=dto.SimplifyResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/farms/{id}/boundary/simplify [post]
func (h *BoundaryHandler) Simplify(c *fiber.Ctx) error {
	farmID, err := parseFarmID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.SimplifyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithReason("invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithReason(err.Error()))
	}

	result, err := h.boundaryUC.Simplify(c.Context(), farmID, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// Buffer godoc
// @Summary Buffer the boundary by a metric distance
// @Description Positive distances expand, negative shrink. Computed in PostGIS on the stored geography.
// @Tags Boundaries
// @Accept json
// @Produce json
// @Param id path string true "Farm ID"
// @Param request body dto.BufferRequest true "Distance in meters"
// @Success 200 {object} utils.SuccessResponse{data=dto.BufferResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/farms/{id}/boundary/buffer [post]
func (h *BoundaryHandler) Buffer(c *fiber.Ctx) error {
	farmID, err := parseFarmID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.BufferRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithReason("invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithReason(err.Error()))
	}

	result, err := h.boundaryUC.Buffer(c.Context(), farmID, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// GetAnomalies godoc
// @Summary Detect boundary shape anomalies
// @Tags Boundaries
// @Produce json
// @Param id path string true "Farm ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.AnomalyReport}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/farms/{id}/anomalies [get]
func (h *BoundaryHandler) GetAnomalies(c *fiber.Ctx) error {
	farmID, err := parseFarmID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.boundaryUC.GetBoundary(c.Context(), farmID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result.Anomalies, nil)
}

// GetOverlaps godoc
// @Summary Check boundary overlaps with nearby farms
// @Tags Boundaries
// @Produce json
// @Param id path string true "Farm ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.OverlapReport}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/farms/{id}/overlaps [get]
func (h *BoundaryHandler) GetOverlaps(c *fiber.Ctx) error {
	farmID, err := parseFarmID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.boundaryUC.CheckOverlap(c.Context(), farmID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{Total: result.OverlapCount})
}
