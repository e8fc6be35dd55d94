package satellite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/croppulse/farm-boundary-service/internal/config"
	"github.com/croppulse/farm-boundary-service/internal/domain"
	"github.com/croppulse/farm-boundary-service/internal/domain/repository"
	"github.com/croppulse/farm-boundary-service/internal/pkg/errors"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

type analyzeRequest struct {
	AOI json.RawMessage `json:"aoi"`
}

type analyzeResponse struct {
	Status string              `json:"status"`
	Result domain.AreaEstimate `json:"result"`
	Error  string              `json:"error,omitempty"`
}

// NewClient creates the HTTP client for the satellite analysis service. Given
// a GeoJSON area of interest it returns an independent area measurement.
func NewClient(cfg *config.SatelliteConfig, logger *zap.Logger) repository.AreaEstimator {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

func (c *client) EstimateArea(ctx context.Context, aoi []byte) (*domain.AreaEstimate, error) {
	if len(aoi) == 0 {
		return nil, fmt.Errorf("aoi cannot be empty")
	}

	body, err := json.Marshal(analyzeRequest{AOI: aoi})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/analysis/area", c.baseURL)

	c.logger.Debug("Calling satellite analysis API",
		zap.String("url", url),
		zap.Int("aoi_bytes", len(aoi)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, errors.ErrSatelliteUnavailable.WithReason(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("Satellite API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return nil, errors.ErrSatelliteUnavailable.WithReason(
			fmt.Sprintf("status %d: %s", resp.StatusCode, string(respBody)))
	}

	var analyzeResp analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&analyzeResp); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if analyzeResp.Status != "ok" {
		c.logger.Error("Satellite API returned non-ok status",
			zap.String("status", analyzeResp.Status),
			zap.String("error", analyzeResp.Error))
		return nil, errors.ErrSatelliteUnavailable.WithReason(analyzeResp.Error)
	}

	c.logger.Debug("Satellite analysis successful",
		zap.Float64("size_acres", analyzeResp.Result.SizeAcres))

	return &analyzeResp.Result, nil
}
