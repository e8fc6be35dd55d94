package errors

import "net/http"

var (
	ErrFarmNotFound = New(
		"FARM_NOT_FOUND",
		"Farm not found",
		http.StatusNotFound,
	)

	ErrScanNotFound = New(
		"SCAN_NOT_FOUND",
		"No satellite scan recorded for this farm",
		http.StatusNotFound,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidBoundary = New(
		"INVALID_BOUNDARY",
		"Boundary points failed validation",
		http.StatusBadRequest,
	)

	ErrInvalidGeometry = New(
		"INVALID_GEOMETRY",
		"Polygon geometry is invalid",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidGeoJSON = New(
		"INVALID_GEOJSON",
		"GeoJSON feature must contain a single-ring Polygon",
		http.StatusBadRequest,
	)

	ErrInvalidTrace = New(
		"INVALID_TRACE",
		"GPS trace cannot be processed",
		http.StatusBadRequest,
	)

	ErrInvalidFarmID = New(
		"INVALID_FARM_ID",
		"Invalid farm ID",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrSatelliteUnavailable = New(
		"SATELLITE_UNAVAILABLE",
		"Satellite analysis service is unavailable",
		http.StatusBadGateway,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
