package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	exportapp "github.com/hubzone/backend/internal/application/export"
	"github.com/hubzone/backend/internal/domain/zone"
	"github.com/hubzone/backend/internal/interfaces/http/router"
)

func newExportTestEnv() (*gin.Engine, *MockRegionRepository) {
	gin.SetMode(gin.TestMode)

	regionRepo := new(MockRegionRepository)
	svc := exportapp.NewExportService(regionRepo, "hubzone_designations", zap.NewNop())
	h := NewExportHandler(svc)

	engine := gin.New()
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	group := router.NewDomainGroup("map", "/map")
	group.GET("/export", h.Export)
	r.Register(group)
	r.Setup()

	return engine, regionRepo
}

func TestExportHandler_Export(t *testing.T) {
	t.Run("geojson download with attachment headers", func(t *testing.T) {
		engine, regionRepo := newExportTestEnv()
		records := []zone.ExportRecord{
			{
				Region: zone.ZoneRegion{
					TractID:         "48201010100",
					ZoneType:        zone.ZoneTypeQualifiedTract,
					Status:          zone.StatusActive,
					State:           "TX",
					DesignationDate: time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC),
				},
				GeometryJSON: json.RawMessage(`{"type":"MultiPolygon","coordinates":[]}`),
			},
		}
		regionRepo.On("FindForExport", mock.Anything, mock.Anything).Return(records, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/map/export?format=geojson&state=TX", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, w.Header().Get("Content-Disposition"), "hubzone_designations_tx_")
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".geojson")
		assert.Equal(t, "1", w.Header().Get("X-Record-Count"))

		var fc struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fc))
		assert.Equal(t, "FeatureCollection", fc.Type)
	})

	t.Run("defaults to geojson when no format is given", func(t *testing.T) {
		engine, regionRepo := newExportTestEnv()
		regionRepo.On("FindForExport", mock.Anything, mock.Anything).Return([]zone.ExportRecord{}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/map/export", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))
	})

	t.Run("csv download", func(t *testing.T) {
		engine, regionRepo := newExportTestEnv()
		regionRepo.On("FindForExport", mock.Anything, mock.Anything).Return([]zone.ExportRecord{}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/map/export?format=csv", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	})

	t.Run("unsupported format yields 400", func(t *testing.T) {
		engine, regionRepo := newExportTestEnv()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/map/export?format=shapefile", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		regionRepo.AssertNotCalled(t, "FindForExport")
	})
}
