// Package export renders filtered designation data as downloadable
// GeoJSON or CSV documents.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hubzone/backend/internal/domain/geo"
	"github.com/hubzone/backend/internal/domain/shared"
	"github.com/hubzone/backend/internal/domain/zone"
)

// Format identifies an export document format.
type Format string

const (
	FormatGeoJSON Format = "geojson"
	FormatCSV     Format = "csv"
)

// ParseFormat validates a client-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatGeoJSON:
		return FormatGeoJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", shared.InvalidInput(fmt.Sprintf("unsupported export format: %q", s))
	}
}

// ContentType returns the MIME type clients should receive.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/geo+json"
}

// Extension returns the filename extension without the dot.
func (f Format) Extension() string {
	return string(f)
}

// csvHeader is the fixed column order of CSV exports.
var csvHeader = []string{
	"tract_id", "name", "zone_type", "status", "state", "county",
	"designation_date", "expiration_date", "is_redesignated",
	"grace_period_end", "centroid_lat", "centroid_lng",
}

// ExportRequest filters the exported rows.
type ExportRequest struct {
	Format    string   `form:"format"`
	State     string   `form:"state"`
	County    string   `form:"county"`
	ZoneTypes []string `form:"zone_type"`
	Statuses  []string `form:"status"`
}

// Document is a rendered export ready to stream to the client.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
	RecordCount int
}

// ExportService renders designation data for download.
type ExportService struct {
	regionRepo     zone.RegionRepository
	filenamePrefix string
	nowFunc        func() time.Time
	logger         *zap.Logger
}

// NewExportService creates a new ExportService
func NewExportService(regionRepo zone.RegionRepository, filenamePrefix string, logger *zap.Logger) *ExportService {
	return &ExportService{
		regionRepo:     regionRepo,
		filenamePrefix: filenamePrefix,
		nowFunc:        time.Now,
		logger:         logger,
	}
}

// Export renders the filtered regions in the requested format. An
// empty result set still yields a valid document: an empty feature
// collection, or a CSV with only the header row.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*Document, error) {
	format, err := ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}

	filter, err := buildFilter(req)
	if err != nil {
		return nil, err
	}

	records, err := s.regionRepo.FindForExport(ctx, filter)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch format {
	case FormatCSV:
		data, err = renderCSV(records)
	default:
		data, err = renderGeoJSON(records)
	}
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Filename:    s.filename(format, req),
		ContentType: format.ContentType(),
		Data:        data,
		RecordCount: len(records),
	}
	s.logger.Info("export generated",
		zap.String("format", string(format)),
		zap.String("filename", doc.Filename),
		zap.Int("records", doc.RecordCount))
	return doc, nil
}

func buildFilter(req ExportRequest) (zone.ExportFilter, error) {
	filter := zone.ExportFilter{
		State:  strings.ToUpper(strings.TrimSpace(req.State)),
		County: strings.TrimSpace(req.County),
	}
	for _, zt := range req.ZoneTypes {
		v := zone.ZoneType(zt)
		if !v.IsValid() {
			return zone.ExportFilter{}, shared.InvalidInput(fmt.Sprintf("unknown zone type: %q", zt))
		}
		filter.ZoneTypes = append(filter.ZoneTypes, v)
	}
	for _, st := range req.Statuses {
		v := zone.Status(st)
		if !v.IsValid() {
			return zone.ExportFilter{}, shared.InvalidInput(fmt.Sprintf("unknown status: %q", st))
		}
		filter.Statuses = append(filter.Statuses, v)
	}
	return filter, nil
}

// filename builds prefix[_state][_county]_YYYY-MM-DD.ext, with filter
// parts lowercased and inner whitespace collapsed to underscores.
func (s *ExportService) filename(format Format, req ExportRequest) string {
	parts := []string{s.filenamePrefix}
	if v := filenamePart(req.State); v != "" {
		parts = append(parts, v)
	}
	if v := filenamePart(req.County); v != "" {
		parts = append(parts, v)
	}
	parts = append(parts, s.nowFunc().UTC().Format("2006-01-02"))
	return strings.Join(parts, "_") + "." + format.Extension()
}

func filenamePart(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), "_")
}

func renderGeoJSON(records []zone.ExportRecord) ([]byte, error) {
	features := make([]geo.Feature, 0, len(records))
	for _, rec := range records {
		props := map[string]any{
			"tract_id":         rec.Region.TractID,
			"name":             rec.Region.Name,
			"zone_type":        string(rec.Region.ZoneType),
			"status":           string(rec.Region.Status),
			"state":            rec.Region.State,
			"county":           rec.Region.County,
			"designation_date": rec.Region.DesignationDate.Format("2006-01-02"),
			"is_redesignated":  rec.Region.IsRedesignated,
		}
		if rec.Region.ExpirationDate != nil {
			props["expiration_date"] = rec.Region.ExpirationDate.Format("2006-01-02")
		}
		if rec.Region.GracePeriodEnd != nil {
			props["grace_period_end"] = rec.Region.GracePeriodEnd.Format("2006-01-02")
		}
		features = append(features, geo.NewFeature(rec.GeometryJSON, props))
	}
	return json.Marshal(geo.NewFeatureCollection(features))
}

func renderCSV(records []zone.ExportRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, rec := range records {
		expiration := ""
		if rec.Region.ExpirationDate != nil {
			expiration = rec.Region.ExpirationDate.Format("2006-01-02")
		}
		graceEnd := ""
		if rec.Region.GracePeriodEnd != nil {
			graceEnd = rec.Region.GracePeriodEnd.Format("2006-01-02")
		}
		row := []string{
			rec.Region.TractID,
			rec.Region.Name,
			string(rec.Region.ZoneType),
			string(rec.Region.Status),
			rec.Region.State,
			rec.Region.County,
			rec.Region.DesignationDate.Format("2006-01-02"),
			expiration,
			strconv.FormatBool(rec.Region.IsRedesignated),
			graceEnd,
			strconv.FormatFloat(rec.CentroidLat, 'f', 6, 64),
			strconv.FormatFloat(rec.CentroidLng, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
