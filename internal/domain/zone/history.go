package zone

import (
	"time"

	"github.com/google/uuid"
)

// DesignationHistoryEntry is an immutable record of one status or
// zone-type transition for a tract. Entries are presented most recent
// first.
type DesignationHistoryEntry struct {
	ID            uuid.UUID
	TractID       string
	ZoneType      ZoneType
	Status        Status
	EffectiveDate time.Time
	EndDate       *time.Time
	Reason        *string
}
