// Package zone holds the domain model for HUBZone designation
// regions: the region entity, its enums, the designation history and
// the repository contracts the spatial store implements.
package zone

import (
	"time"

	"github.com/google/uuid"
)

// ZoneType classifies the designation a region carries.
type ZoneType string

const (
	ZoneTypeQualifiedTract       ZoneType = "qualified_tract"
	ZoneTypeNonMetroCounty       ZoneType = "non_metro_county"
	ZoneTypeTribalLand           ZoneType = "tribal_land"
	ZoneTypeBaseClosure          ZoneType = "base_closure"
	ZoneTypeGovernorDesignated   ZoneType = "governor_designated"
	ZoneTypeRedesignated         ZoneType = "redesignated"
	ZoneTypeDifficultDevelopment ZoneType = "difficult_development"
)

// AllZoneTypes returns every zone type, in presentation order.
func AllZoneTypes() []ZoneType {
	return []ZoneType{
		ZoneTypeQualifiedTract,
		ZoneTypeNonMetroCounty,
		ZoneTypeTribalLand,
		ZoneTypeBaseClosure,
		ZoneTypeGovernorDesignated,
		ZoneTypeRedesignated,
		ZoneTypeDifficultDevelopment,
	}
}

// IsValid reports whether t is a known zone type.
func (t ZoneType) IsValid() bool {
	for _, v := range AllZoneTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// Status is the lifecycle state of a region's designation.
type Status string

const (
	StatusActive       Status = "active"
	StatusRedesignated Status = "redesignated"
	StatusExpired      Status = "expired"
	StatusPending      Status = "pending"
)

// AllStatuses returns every status, in presentation order.
func AllStatuses() []Status {
	return []Status{StatusActive, StatusRedesignated, StatusExpired, StatusPending}
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	for _, v := range AllStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// DesignatedStatuses are the statuses rendered on map tiles and
// returned by proximity search. Expired and pending regions are kept
// in the store but are not designated.
func DesignatedStatuses() []Status {
	return []Status{StatusActive, StatusRedesignated}
}

// ZoneRegion is a geographically bounded area carrying a designation
// under the incentive-zone program. Regions are written only by the
// periodic bulk importer; this core reads them.
type ZoneRegion struct {
	ID              uuid.UUID
	TractID         string
	Name            string
	ZoneType        ZoneType
	Status          Status
	State           string
	County          string
	DesignationDate time.Time
	ExpirationDate  *time.Time
	IsRedesignated  bool
	GracePeriodEnd  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsDesignated reports whether the region currently counts toward the
// designated portfolio.
func (r *ZoneRegion) IsDesignated() bool {
	return r.Status == StatusActive || r.Status == StatusRedesignated
}
