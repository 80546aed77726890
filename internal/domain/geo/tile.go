package geo

import (
	"fmt"
	"math"

	"github.com/hubzone/backend/internal/domain/shared"
)

// Tile pyramid limits. Zone polygons carry no useful detail beyond
// zoom 14, so tiles outside this range are rejected rather than
// clamped.
const (
	MinZoom = 0
	MaxZoom = 14
)

// Web Mercator constants (EPSG:3857)
const (
	earthRadiusMeters = 6378137.0
	originShift       = math.Pi * earthRadiusMeters
)

// TileCoordinate identifies one rectangle in the standard power-of-two
// tile pyramid (XYZ scheme, row 0 at the top).
type TileCoordinate struct {
	Z int
	X int
	Y int
}

// Envelope is a rectangular bounding box. Ordinates are either
// EPSG:3857 meters or lon/lat degrees depending on which method
// produced it.
type Envelope struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Validate checks that the coordinate lies within the tile pyramid.
func (t TileCoordinate) Validate() error {
	if t.Z < MinZoom || t.Z > MaxZoom {
		return shared.InvalidInput(fmt.Sprintf("zoom level %d out of range [%d, %d]", t.Z, MinZoom, MaxZoom))
	}
	max := 1 << t.Z
	if t.X < 0 || t.X >= max {
		return shared.InvalidInput(fmt.Sprintf("tile column %d out of range [0, %d) at zoom %d", t.X, max, t.Z))
	}
	if t.Y < 0 || t.Y >= max {
		return shared.InvalidInput(fmt.Sprintf("tile row %d out of range [0, %d) at zoom %d", t.Y, max, t.Z))
	}
	return nil
}

// CacheKey derives the cache key for this tile. Distinct coordinates
// never collide.
func (t TileCoordinate) CacheKey() string {
	return fmt.Sprintf("tile_%d_%d_%d", t.Z, t.X, t.Y)
}

// MercatorEnvelope returns the tile's bounding box in EPSG:3857
// meters. Adjacent tiles share edge ordinates exactly: the max-X of
// (z,x,y) and the min-X of (z,x+1,y) are computed from the same
// expression, so clipping against either envelope sees the identical
// float64 boundary.
func (t TileCoordinate) MercatorEnvelope() Envelope {
	n := float64(int64(1) << t.Z)
	size := 2 * originShift / n
	return Envelope{
		MinX: -originShift + float64(t.X)*size,
		MaxX: -originShift + float64(t.X+1)*size,
		MinY: originShift - float64(t.Y+1)*size,
		MaxY: originShift - float64(t.Y)*size,
	}
}

// GeographicEnvelope returns the tile's bounding box in lon/lat
// degrees (EPSG:4326).
func (t TileCoordinate) GeographicEnvelope() Envelope {
	n := float64(int64(1) << t.Z)
	return Envelope{
		MinX: float64(t.X)/n*360 - 180,
		MaxX: float64(t.X+1)/n*360 - 180,
		MinY: tileLatDegrees(float64(t.Y+1), n),
		MaxY: tileLatDegrees(float64(t.Y), n),
	}
}

func tileLatDegrees(y, n float64) float64 {
	return math.Atan(math.Sinh(math.Pi*(1-2*y/n))) * 180 / math.Pi
}
