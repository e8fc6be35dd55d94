// Package docs Farm Boundary Service API.
//
// Geospatial service for smallholder farm boundaries. Validates and persists
// boundary polygons, converts GPS walking traces into boundaries with a
// quality verdict, computes areas and shape metrics, and reconciles declared
// farm sizes against satellite measurements.
//
// Main capabilities:
// - Boundary creation from point lists, GPS traces or GeoJSON
// - Area, perimeter and shape complexity calculation
// - Overlap detection against neighboring farms
// - Asynchronous satellite size verification with scan history
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//	- application/geo+json
//
// swagger:meta
package docs
