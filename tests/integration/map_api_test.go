package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	exportapp "github.com/hubzone/backend/internal/application/export"
	"github.com/hubzone/backend/internal/application/maps"
	"github.com/hubzone/backend/internal/application/stats"
	"github.com/hubzone/backend/internal/domain/zone"
	"github.com/hubzone/backend/internal/infrastructure/cache"
	"github.com/hubzone/backend/internal/infrastructure/persistence"
	"github.com/hubzone/backend/internal/interfaces/http/handler"
	"github.com/hubzone/backend/internal/interfaces/http/middleware"
	"github.com/hubzone/backend/internal/interfaces/http/router"
)

// newMapAPIServer wires the full HTTP stack over a real PostGIS
// database, the same construction order cmd/server uses.
func newMapAPIServer(t *testing.T, testDB *TestDB) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	regionRepo := persistence.NewGormRegionRepository(testDB.DB)
	historyRepo := persistence.NewGormHistoryRepository(testDB.DB)
	importRepo := persistence.NewGormImportRunRepository(testDB.DB)

	tileCache := cache.NewInMemoryTileCache()
	t.Cleanup(func() { _ = tileCache.Close() })

	tileService := maps.NewTileService(regionRepo, tileCache, maps.TileSettings{
		Extent:            4096,
		Buffer:            64,
		SimplifyTolerance: 256,
		Layer:             "hubzone_zones",
	}, log)
	radiusService := maps.NewRadiusService(regionRepo, maps.SearchSettings{
		MaxRadiusMiles: 100,
		MaxResults:     50,
	}, log)
	tractService := maps.NewTractService(regionRepo, historyRepo)
	statsService := stats.NewStatisticsService(regionRepo, importRepo, tileCache, log)
	exportService := exportapp.NewExportService(regionRepo, "hubzone_designations", log)

	mapHandler := handler.NewMapHandler(tileService, radiusService, tractService, statsService)
	exportHandler := handler.NewExportHandler(exportService)

	engine := gin.New()
	engine.Use(middleware.RequestID())

	mapGroup := router.NewDomainGroup("map", "/map").
		GET("/tiles/:z/:x/:y", mapHandler.GetTile).
		GET("/radius", mapHandler.SearchRadius).
		GET("/tracts/:tractId", mapHandler.GetTract).
		GET("/statistics", mapHandler.GetStatistics).
		GET("/export", exportHandler.Export)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(mapGroup).
		Setup()

	return engine
}

func doGet(t *testing.T, engine *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestMapAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	seedHarrisCounty(t, testDB)
	testDB.SeedBusinessLocation("Bayou Machining LLC", "TX", -95.35, 29.75)
	testDB.SeedDesignationHistory("48201100000", zone.ZoneTypeQualifiedTract, zone.StatusActive,
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "initial designation")
	completed := time.Date(2025, 2, 10, 6, 0, 0, 0, time.UTC)
	testDB.SeedImportRun("completed", completed.Add(-time.Hour), &completed)

	engine := newMapAPIServer(t, testDB)

	t.Run("tile render miss then cache hit", func(t *testing.T) {
		w := doGet(t, engine, "/api/v1/map/tiles/0/0/0")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/x-protobuf", w.Header().Get("Content-Type"))
		assert.Equal(t, "MISS", w.Header().Get("X-Tile-Cache"))
		assert.NotEmpty(t, w.Body.Bytes())

		w2 := doGet(t, engine, "/api/v1/map/tiles/0/0/0.pbf")
		require.Equal(t, http.StatusOK, w2.Code)
		assert.Equal(t, "HIT", w2.Header().Get("X-Tile-Cache"))
		assert.Equal(t, w.Body.Bytes(), w2.Body.Bytes())
	})

	t.Run("radius search returns nearest designated tracts", func(t *testing.T) {
		w := doGet(t, engine, "/api/v1/map/radius?lat=29.75&lng=-95.35&radius=25")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				SearchedRadiusMiles float64 `json:"searched_radius_miles"`
				TotalCount          int     `json:"total_count"`
				Results             []struct {
					TractID       string  `json:"tract_id"`
					DistanceMiles float64 `json:"distance_miles"`
				} `json:"results"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.True(t, resp.Success)
		assert.Equal(t, 25.0, resp.Data.SearchedRadiusMiles)
		require.Equal(t, 2, resp.Data.TotalCount)
		assert.Equal(t, "48201100000", resp.Data.Results[0].TractID)
		assert.Zero(t, resp.Data.Results[0].DistanceMiles)
	})

	t.Run("tract detail includes history and business count", func(t *testing.T) {
		w := doGet(t, engine, "/api/v1/map/tracts/48201100000")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				TractID       string          `json:"tract_id"`
				BusinessCount int64           `json:"business_count"`
				AreaSqMiles   float64         `json:"area_sq_miles"`
				Geometry      json.RawMessage `json:"geometry"`
				History       []struct {
					Status string `json:"status"`
				} `json:"history"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "48201100000", resp.Data.TractID)
		assert.Equal(t, int64(1), resp.Data.BusinessCount)
		assert.Greater(t, resp.Data.AreaSqMiles, 0.0)
		assert.Contains(t, string(resp.Data.Geometry), "MultiPolygon")
		require.Len(t, resp.Data.History, 1)
		assert.Equal(t, "active", resp.Data.History[0].Status)
	})

	t.Run("unknown tract is 404", func(t *testing.T) {
		w := doGet(t, engine, "/api/v1/map/tracts/99999999999")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("statistics aggregate the portfolio", func(t *testing.T) {
		w := doGet(t, engine, "/api/v1/map/statistics")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				TotalRegions      int64            `json:"total_regions"`
				DesignatedRegions int64            `json:"designated_regions"`
				CountsByStatus    map[string]int64 `json:"counts_by_status"`
				DataLastUpdated   *time.Time       `json:"data_last_updated"`
				TopStates         []struct {
					State string `json:"state"`
				} `json:"top_states"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(3), resp.Data.TotalRegions)
		assert.Equal(t, int64(2), resp.Data.DesignatedRegions)
		assert.Equal(t, int64(1), resp.Data.CountsByStatus["expired"])
		require.NotNil(t, resp.Data.DataLastUpdated)
		assert.WithinDuration(t, completed, *resp.Data.DataLastUpdated, time.Second)
		require.NotEmpty(t, resp.Data.TopStates)
		assert.Equal(t, "TX", resp.Data.TopStates[0].State)
	})

	t.Run("geojson export streams a feature collection", func(t *testing.T) {
		w := doGet(t, engine, "/api/v1/map/export?format=geojson&state=TX")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
		assert.Equal(t, "2", w.Header().Get("X-Record-Count"))

		var fc struct {
			Type     string `json:"type"`
			Features []struct {
				Properties map[string]any `json:"properties"`
			} `json:"features"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fc))
		assert.Equal(t, "FeatureCollection", fc.Type)
		require.Len(t, fc.Features, 2)
		assert.Equal(t, "48201100000", fc.Features[0].Properties["tract_id"])
	})

	t.Run("csv export carries the fixed header", func(t *testing.T) {
		w := doGet(t, engine, "/api/v1/map/export?format=csv")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "tract_id")
	})
}
