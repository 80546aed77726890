package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hubzone/backend/internal/application/maps"
	"github.com/hubzone/backend/internal/application/stats"
	"github.com/hubzone/backend/internal/domain/geo"
)

// tileContentType is the MIME type for Mapbox Vector Tiles.
const tileContentType = "application/x-protobuf"

// MapHandler handles the public map API: vector tiles, proximity
// search, tract detail and portfolio statistics.
type MapHandler struct {
	BaseHandler
	tileService   *maps.TileService
	radiusService *maps.RadiusService
	tractService  *maps.TractService
	statsService  *stats.StatisticsService
}

// NewMapHandler creates a new MapHandler
func NewMapHandler(
	tileService *maps.TileService,
	radiusService *maps.RadiusService,
	tractService *maps.TractService,
	statsService *stats.StatisticsService,
) *MapHandler {
	return &MapHandler{
		tileService:   tileService,
		radiusService: radiusService,
		tractService:  tractService,
		statsService:  statsService,
	}
}

// GetTile serves one vector tile.
// GET /map/tiles/:z/:x/:y  (the row segment may carry a .pbf suffix)
func (h *MapHandler) GetTile(c *gin.Context) {
	coord, err := parseTileCoordinate(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	data, cached, err := h.tileService.GetTile(c.Request.Context(), coord)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if cached {
		c.Header("X-Tile-Cache", "HIT")
	} else {
		c.Header("X-Tile-Cache", "MISS")
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, tileContentType, data)
}

// parseTileCoordinate reads z/x/y path segments. Clients following
// the usual slippy-map URL template request rows as "123.pbf".
func parseTileCoordinate(c *gin.Context) (geo.TileCoordinate, error) {
	z, err := strconv.Atoi(c.Param("z"))
	if err != nil {
		return geo.TileCoordinate{}, err
	}
	x, err := strconv.Atoi(c.Param("x"))
	if err != nil {
		return geo.TileCoordinate{}, err
	}
	y, err := strconv.Atoi(strings.TrimSuffix(c.Param("y"), ".pbf"))
	if err != nil {
		return geo.TileCoordinate{}, err
	}
	return geo.TileCoordinate{Z: z, X: x, Y: y}, nil
}

// SearchRadius finds designated regions near a point.
// GET /map/radius?lat=..&lng=..&radius=..
func (h *MapHandler) SearchRadius(c *gin.Context) {
	if c.Query("lat") == "" || c.Query("lng") == "" {
		h.BadRequest(c, "lat and lng query parameters are required")
		return
	}

	var req maps.RadiusSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "lat, lng and radius must be numeric")
		return
	}

	resp, err := h.radiusService.Search(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetTract returns the detail view for one census tract.
// GET /map/tracts/:tractId
func (h *MapHandler) GetTract(c *gin.Context) {
	tractID := strings.TrimSpace(c.Param("tractId"))
	if tractID == "" {
		h.BadRequest(c, "tract ID is required")
		return
	}

	resp, err := h.tractService.GetDetail(c.Request.Context(), tractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetStatistics returns the portfolio summary.
// GET /map/statistics
func (h *MapHandler) GetStatistics(c *gin.Context) {
	resp, err := h.statsService.GetStatistics(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
